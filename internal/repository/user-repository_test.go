package repository_test

import (
	"context"
	"testing"

	"github.com/SundayYogurt/store_service/internal/domain"
	"github.com/SundayYogurt/store_service/internal/repository"
	"github.com/SundayYogurt/store_service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))

	u := &domain.User{Email: "ada@example.com", Name: "Ada", Provider: domain.ProviderLocal, Role: domain.RoleUser}
	require.NoError(t, repo.CreateUser(ctx, u))
	assert.NotEqual(t, uuid.Nil, u.ID)

	byEmail, err := repo.FindUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := repo.FindUserById(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", byID.Name)
	assert.Equal(t, domain.RoleUser, byID.Role)

	_, err = repo.FindUserById(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))

	require.NoError(t, repo.CreateUser(ctx, &domain.User{Email: "dup@example.com", Name: "One", Role: domain.RoleUser}))
	err := repo.CreateUser(ctx, &domain.User{Email: "dup@example.com", Name: "Two", Role: domain.RoleUser})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_GoogleID(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))

	gid := "google-123"
	u := &domain.User{Email: "g@example.com", Name: "G", Provider: domain.ProviderGoogle, GoogleID: &gid, Role: domain.RoleUser}
	require.NoError(t, repo.CreateUser(ctx, u))

	found, err := repo.FindUserByGoogleID(ctx, gid)
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.False(t, found.HasPassword())

	_, err = repo.FindUserByGoogleID(ctx, "other")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_UpdateUserFields(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))

	u := &domain.User{Email: "save@example.com", Name: "Before", Phone: "+66 2 000 0000", Role: domain.RoleUser}
	require.NoError(t, repo.CreateUser(ctx, u))

	found, err := repo.UpdateUserFields(ctx, u.ID, map[string]interface{}{
		"name":         "After",
		"address_city": "Bangkok",
	})
	require.NoError(t, err)
	assert.Equal(t, "After", found.Name)
	assert.Equal(t, "Bangkok", found.Address.City)
	assert.Equal(t, "+66 2 000 0000", found.Phone, "unnamed columns are kept")

	same, err := repo.UpdateUserFields(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "After", same.Name)

	_, err = repo.UpdateUserFields(ctx, uuid.New(), map[string]interface{}{"name": "Ghost"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_CreateFirstAdmin(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))

	exists, err := repo.AdminExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	first := &domain.User{Email: "admin@example.com", Name: "Admin"}
	require.NoError(t, repo.CreateFirstAdmin(ctx, first))
	assert.Equal(t, domain.RoleAdmin, first.Role)

	second := &domain.User{Email: "admin2@example.com", Name: "Admin Two"}
	assert.ErrorIs(t, repo.CreateFirstAdmin(ctx, second), repository.ErrAdminExists)

	exists, err = repo.AdminExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_SingleAdminIndex(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "a1@example.com", domain.RoleAdmin)

	// bypass the repository check and hit the partial index directly
	err := db.Create(&domain.User{Email: "a2@example.com", Name: "A2", Role: domain.RoleAdmin}).Error
	assert.Error(t, err)

	// regular users are not constrained
	testutil.CreateUser(t, db, "u1@example.com", domain.RoleUser)
	testutil.CreateUser(t, db, "u2@example.com", domain.RoleUser)
}
