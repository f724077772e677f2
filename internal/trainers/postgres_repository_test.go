package trainers

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func trainerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "specialization", "experience_years", "profile_pic_url"})
}

func TestPostgresFindAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM trainers ORDER BY name ASC`).
		WillReturnRows(trainerRows().
			AddRow("t1", "Anita Desai", "Yoga", 6, "").
			AddRow("t2", "Ravi Kumar", "Strength", 8, "https://cdn.pulsefit.gym/ravi.jpg"))

	got, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Anita Desai", got[0].Name)
	assert.Equal(t, 8, got[1].Experience)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByName(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM trainers WHERE LOWER\(name\) = LOWER\(\$1\)`).
		WithArgs("Ravi Kumar").
		WillReturnRows(trainerRows().AddRow("t2", "Ravi Kumar", "Strength", 8, ""))

	got, err := repo.FindByName(context.Background(), "  Ravi Kumar ")
	require.NoError(t, err)
	assert.Equal(t, "t2", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByNameNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM trainers WHERE LOWER\(name\) = LOWER\(\$1\)`).
		WithArgs("Nobody").
		WillReturnRows(trainerRows())

	_, err := repo.FindByName(context.Background(), "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresFindBySpecialization(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM trainers\s+WHERE specialization ILIKE`).
		WithArgs("yoga").
		WillReturnRows(trainerRows().AddRow("t1", "Anita Desai", "Yoga", 6, ""))

	got, err := repo.FindBySpecialization(context.Background(), "yoga")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Yoga", got[0].Specialization)
}

func TestPostgresSpecializations(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT DISTINCT specialization FROM trainers`).
		WillReturnRows(sqlmock.NewRows([]string{"specialization"}).
			AddRow("Strength").
			AddRow("Yoga"))

	got, err := repo.Specializations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Strength", "Yoga"}, got)
}
