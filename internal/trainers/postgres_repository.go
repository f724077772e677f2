package trainers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PostgresRepository reads the trainer directory from the relational database.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a Postgres-backed directory.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	if db == nil {
		return nil
	}
	return &PostgresRepository{db: db}
}

const trainerColumns = `id, name, specialization, experience_years, COALESCE(profile_pic_url, '')`

// FindAll returns every trainer ordered by name.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]Trainer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+trainerColumns+` FROM trainers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("trainers: list failed: %w", err)
	}
	defer rows.Close()
	return scanTrainers(rows)
}

// FindByName looks a trainer up by exact name (case-insensitive).
func (r *PostgresRepository) FindByName(ctx context.Context, name string) (*Trainer, error) {
	var t Trainer
	err := r.db.QueryRowContext(ctx,
		`SELECT `+trainerColumns+` FROM trainers WHERE LOWER(name) = LOWER($1)`,
		strings.TrimSpace(name),
	).Scan(&t.ID, &t.Name, &t.Specialization, &t.Experience, &t.ProfilePicURL)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("trainers: lookup by name failed: %w", err)
	}
	return &t, nil
}

// FindBySpecialization returns trainers whose specialization contains the
// given term, ordered by experience.
func (r *PostgresRepository) FindBySpecialization(ctx context.Context, specialization string) ([]Trainer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+trainerColumns+` FROM trainers
		 WHERE specialization ILIKE '%' || $1 || '%'
		 ORDER BY experience_years DESC, name ASC`,
		strings.TrimSpace(specialization),
	)
	if err != nil {
		return nil, fmt.Errorf("trainers: lookup by specialization failed: %w", err)
	}
	defer rows.Close()
	return scanTrainers(rows)
}

// Specializations returns the distinct specializations on offer.
func (r *PostgresRepository) Specializations(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT specialization FROM trainers ORDER BY specialization ASC`)
	if err != nil {
		return nil, fmt.Errorf("trainers: list specializations failed: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("trainers: scan specialization: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trainers: iterate specializations: %w", err)
	}
	return out, nil
}

func scanTrainers(rows *sql.Rows) ([]Trainer, error) {
	var out []Trainer
	for rows.Next() {
		var t Trainer
		if err := rows.Scan(&t.ID, &t.Name, &t.Specialization, &t.Experience, &t.ProfilePicURL); err != nil {
			return nil, fmt.Errorf("trainers: scan row: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trainers: iterate rows: %w", err)
	}
	return out, nil
}

var _ Repository = (*PostgresRepository)(nil)
