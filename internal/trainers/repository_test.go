package trainers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRepo() *InMemoryRepository {
	return NewInMemoryRepository(
		Trainer{ID: "t1", Name: "Ravi Kumar", Specialization: "Strength", Experience: 8},
		Trainer{ID: "t2", Name: "Anita Desai", Specialization: "Yoga", Experience: 6},
		Trainer{ID: "t3", Name: "Vikram Singh", Specialization: "Strength", Experience: 3},
	)
}

func TestInMemoryFindAll(t *testing.T) {
	got, err := seedRepo().FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestInMemoryFindByName(t *testing.T) {
	repo := seedRepo()

	got, err := repo.FindByName(context.Background(), "anita desai")
	require.NoError(t, err)
	assert.Equal(t, "t2", got.ID)

	_, err = repo.FindByName(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryFindBySpecialization(t *testing.T) {
	got, err := seedRepo().FindBySpecialization(context.Background(), "STRENGTH")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestInMemorySpecializations(t *testing.T) {
	got, err := seedRepo().Specializations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Strength", "Yoga"}, got)
}
