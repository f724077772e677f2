package trainers

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNotFound is returned when no trainer matches the lookup.
var ErrNotFound = errors.New("trainers: not found")

// Repository is the trainer directory consumed by the booking flow.
type Repository interface {
	FindAll(ctx context.Context) ([]Trainer, error)
	FindByName(ctx context.Context, name string) (*Trainer, error)
	FindBySpecialization(ctx context.Context, specialization string) ([]Trainer, error)
	Specializations(ctx context.Context) ([]string, error)
}

// InMemoryRepository serves a fixed trainer list; used in tests and when no
// database is configured.
type InMemoryRepository struct {
	mu       sync.RWMutex
	trainers []Trainer
}

// NewInMemoryRepository creates an in-memory directory.
func NewInMemoryRepository(trainers ...Trainer) *InMemoryRepository {
	return &InMemoryRepository{trainers: trainers}
}

// FindAll returns every trainer.
func (r *InMemoryRepository) FindAll(ctx context.Context) ([]Trainer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Trainer, len(r.trainers))
	copy(out, r.trainers)
	return out, nil
}

// FindByName looks a trainer up by exact name (case-insensitive).
func (r *InMemoryRepository) FindByName(ctx context.Context, name string) (*Trainer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.trainers {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			found := t
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// FindBySpecialization returns trainers whose specialization contains the
// given term (case-insensitive).
func (r *InMemoryRepository) FindBySpecialization(ctx context.Context, specialization string) ([]Trainer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	term := strings.ToLower(strings.TrimSpace(specialization))
	var out []Trainer
	for _, t := range r.trainers {
		if strings.Contains(strings.ToLower(t.Specialization), term) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Specializations returns the distinct specializations on offer, in first-seen
// order.
func (r *InMemoryRepository) Specializations(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]struct{}{}
	var out []string
	for _, t := range r.trainers {
		if _, ok := seen[t.Specialization]; ok {
			continue
		}
		seen[t.Specialization] = struct{}{}
		out = append(out, t.Specialization)
	}
	return out, nil
}

var _ Repository = (*InMemoryRepository)(nil)
