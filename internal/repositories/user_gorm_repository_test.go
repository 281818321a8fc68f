package repositories_test

import (
	"context"
	"testing"

	"estoque/internal/models"
	"estoque/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMUserRepository(t *testing.T) {
	repo := repositories.NewGORMUserRepository(openTestDB(t))
	ctx := context.Background()

	user := &models.User{Name: "Ana", Email: "ana@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", byID.Name)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMUserRepository_UniqueEmail(t *testing.T) {
	repo := repositories.NewGORMUserRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Name: "Ana", Email: "ana@example.com", Password: "x"}))
	err := repo.Create(ctx, &models.User{Name: "Outra Ana", Email: "ana@example.com", Password: "y"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
}
