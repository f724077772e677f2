package otp

import (
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueGeneratesSixDigitCode(t *testing.T) {
	v := New()
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		state := v.Issue()
		if len(state.Code) != 6 {
			t.Fatalf("code %q is not 6 digits", state.Code)
		}
		for _, r := range state.Code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit", state.Code)
			}
		}
		seen[state.Code] = true
	}
	if len(seen) < 2 {
		t.Error("20 issued codes were all identical")
	}
}

func TestVerifyHappyPath(t *testing.T) {
	now := time.Now()
	v := New(WithClock(fixedClock(now)))
	state := v.Issue()

	result, _ := v.Verify(state, " "+state.Code+" ")
	if result != ResultOK {
		t.Fatalf("expected ok, got %s", result)
	}
}

func TestVerifyStripsNonDigits(t *testing.T) {
	v := New()
	state := v.Issue()
	state.Code = "482913"

	result, _ := v.Verify(state, "48-29-13")
	if result != ResultOK {
		t.Fatalf("expected ok for input with separators, got %s", result)
	}
}

func TestVerifyExpired(t *testing.T) {
	start := time.Now()
	clock := start
	v := New(WithClock(func() time.Time { return clock }))
	state := v.Issue()

	clock = start.Add(10*time.Minute + time.Second)
	result, _ := v.Verify(state, state.Code)
	if result != ResultExpired {
		t.Fatalf("expected expired, got %s", result)
	}
}

func TestVerifyLocksAfterMaxAttempts(t *testing.T) {
	v := New()
	state := v.Issue()
	state.Code = "111111"

	for i := 0; i < 4; i++ {
		result, remaining := v.Verify(state, "000000")
		if result != ResultMismatch {
			t.Fatalf("attempt %d: expected mismatch, got %s", i+1, result)
		}
		if remaining != 4-i {
			t.Fatalf("attempt %d: expected %d tries remaining, got %d", i+1, 4-i, remaining)
		}
	}

	// Fifth mismatch trips the lock.
	if result, _ := v.Verify(state, "000000"); result != ResultLocked {
		t.Fatalf("expected locked on fifth mismatch, got %s", result)
	}

	// The correct code is rejected while locked.
	if result, _ := v.Verify(state, "111111"); result != ResultLocked {
		t.Fatalf("expected correct code rejected while locked, got %s", result)
	}

	// A resend resets the counter and the fresh code verifies.
	fresh := v.Issue()
	if result, _ := v.Verify(fresh, fresh.Code); result != ResultOK {
		t.Fatalf("expected fresh code to verify, got %s", result)
	}
}

func TestResendCooldown(t *testing.T) {
	start := time.Now()
	clock := start
	v := New(WithClock(func() time.Time { return clock }))
	state := v.Issue()

	_, remaining, err := v.Resend(state)
	if err == nil {
		t.Fatal("expected immediate resend to be throttled")
	}
	if remaining <= 0 || remaining > 30*time.Second {
		t.Fatalf("unexpected remaining wait %s", remaining)
	}

	clock = start.Add(31 * time.Second)
	fresh, _, err := v.Resend(state)
	if err != nil {
		t.Fatalf("expected resend after cooldown, got %v", err)
	}
	if fresh.Code == state.Code && fresh.IssuedAt.Equal(state.IssuedAt) {
		t.Error("resend did not reissue")
	}
	if fresh.Attempts != 0 {
		t.Errorf("resend should reset attempts, got %d", fresh.Attempts)
	}
}

func TestResendWithNilStateIssues(t *testing.T) {
	v := New()
	state, _, err := v.Resend(nil)
	if err != nil {
		t.Fatalf("expected resend with no prior state to issue, got %v", err)
	}
	if state == nil || state.Code == "" {
		t.Fatal("expected a fresh code")
	}
}

func TestBypassCodeGating(t *testing.T) {
	// Bypass disabled: the fixed code is just another mismatch.
	v := New()
	state := v.Issue()
	state.Code = "999999"
	if result, _ := v.Verify(state, "12345"); result != ResultMismatch {
		t.Fatalf("expected mismatch with bypass disabled, got %s", result)
	}

	// Bypass enabled: the fixed code verifies.
	v = New(WithBypassCode("12345"))
	state = v.Issue()
	state.Code = "999999"
	if result, _ := v.Verify(state, "12345"); result != ResultOK {
		t.Fatalf("expected ok with bypass enabled, got %s", result)
	}
}

func TestVerifyNilState(t *testing.T) {
	v := New()
	if result, _ := v.Verify(nil, "123456"); result != ResultExpired {
		t.Fatalf("expected expired for nil state, got %s", result)
	}
}
