// Package otp issues and verifies the one-time codes used for email
// verification during the free-trial booking flow.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	// DefaultTTL is how long an issued code stays valid.
	DefaultTTL = 10 * time.Minute
	// DefaultMaxAttempts locks verification after this many mismatches.
	DefaultMaxAttempts = 5
	// DefaultResendCooldown is the minimum gap between two issues.
	DefaultResendCooldown = 30 * time.Second

	codeDigits = 6
)

// Result classifies a verification attempt.
type Result int

const (
	ResultOK Result = iota
	ResultExpired
	ResultMismatch
	ResultLocked
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultExpired:
		return "expired"
	case ResultMismatch:
		return "mismatch"
	case ResultLocked:
		return "locked"
	}
	return "unknown"
}

// State is the per-session verification state. It lives inside the chat
// session and is cleared on success.
type State struct {
	Code         string    `json:"code"`
	IssuedAt     time.Time `json:"issued_at"`
	Attempts     int       `json:"attempts"`
	LastResendAt time.Time `json:"last_resend_at"`
}

// Verifier issues, reissues and checks codes. The zero value is not usable;
// construct with New.
type Verifier struct {
	ttl            time.Duration
	maxAttempts    int
	resendCooldown time.Duration
	bypassCode     string // accepted only when non-empty
	now            func() time.Time
}

// Option customizes a Verifier.
type Option func(*Verifier)

// WithTTL overrides the code lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(v *Verifier) {
		if ttl > 0 {
			v.ttl = ttl
		}
	}
}

// WithMaxAttempts overrides the mismatch lock threshold.
func WithMaxAttempts(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.maxAttempts = n
		}
	}
}

// WithResendCooldown overrides the minimum gap between issues.
func WithResendCooldown(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.resendCooldown = d
		}
	}
}

// WithBypassCode enables a fixed code that always verifies. Intended for test
// environments only; production configs leave it empty.
func WithBypassCode(code string) Option {
	return func(v *Verifier) { v.bypassCode = strings.TrimSpace(code) }
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

// New constructs a Verifier with the given options.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		ttl:            DefaultTTL,
		maxAttempts:    DefaultMaxAttempts,
		resendCooldown: DefaultResendCooldown,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Issue generates a fresh code and resets the attempt counter.
func (v *Verifier) Issue() *State {
	now := v.now()
	return &State{
		Code:         generateCode(),
		IssuedAt:     now,
		Attempts:     0,
		LastResendAt: now,
	}
}

// Resend reissues a code unless the cooldown has not elapsed, in which case
// it returns the remaining wait and leaves the state untouched.
func (v *Verifier) Resend(state *State) (*State, time.Duration, error) {
	if state != nil {
		elapsed := v.now().Sub(state.LastResendAt)
		if elapsed < v.resendCooldown {
			remaining := v.resendCooldown - elapsed
			return state, remaining, fmt.Errorf("otp: resend throttled, retry in %s", remaining.Round(time.Second))
		}
	}
	return v.Issue(), 0, nil
}

// Verify checks input against the stored code. Mismatches increment the
// attempt counter; once it reaches the lock threshold every submission is
// rejected until a resend resets the state.
func (v *Verifier) Verify(state *State, input string) (Result, int) {
	if state == nil {
		return ResultExpired, 0
	}

	if state.Attempts >= v.maxAttempts {
		return ResultLocked, 0
	}

	if v.now().Sub(state.IssuedAt) > v.ttl {
		return ResultExpired, 0
	}

	code := digitsOnly(input)
	if code == state.Code || (v.bypassCode != "" && code == v.bypassCode) {
		return ResultOK, 0
	}

	state.Attempts++
	remaining := v.maxAttempts - state.Attempts
	if remaining <= 0 {
		return ResultLocked, 0
	}
	return ResultMismatch, remaining
}

func generateCode() string {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		// crypto/rand should never fail; fall back to a time-derived code so
		// the flow stays alive.
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
