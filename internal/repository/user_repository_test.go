package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trackmyfood/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Use in-memory SQLite for testing. The shared cache keeps every pooled
	// connection on the same database.
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&model.User{}))
	require.NoError(t, db.AutoMigrate(&model.User{}))
	return db
}

func newTestUser(username string) *model.User {
	return &model.User{
		Username:       username,
		Email:          username + "@x.com",
		PasswordHash:   "hash",
		IsActive:       true,
		UnitPreference: model.UnitMetric,
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := newTestUser("alice")
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)
	assert.False(t, user.DateJoined.IsZero())

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, model.UnitMetric, byID.UnitPreference)
	assert.Nil(t, byID.LastLogin)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UsernameUnique(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	first := newTestUser("alice")
	require.NoError(t, repo.Create(ctx, first))

	dup := newTestUser("alice")
	dup.Email = "other@x.com"
	assert.Error(t, repo.Create(ctx, dup))

	// The first record is unaffected.
	taken, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, taken)

	kept, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", kept.Email)
}

func TestUserRepository_UpdateKeepsUnrelatedFields(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	dob := model.NewDate(1990, time.April, 2)
	user := newTestUser("alice")
	user.DOB = &dob
	require.NoError(t, repo.Create(ctx, user))

	user.Height = decimal.NewNullDecimal(decimal.NewFromInt(70))
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Height.Valid)
	assert.True(t, got.Height.Decimal.Equal(decimal.NewFromInt(70)))
	require.NotNil(t, got.DOB)
	assert.Equal(t, "1990-04-02", got.DOB.Format("2006-01-02"))
}

func TestUserRepository_TouchLastLogin(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := newTestUser("alice")
	require.NoError(t, repo.Create(ctx, user))

	at := time.Now().Truncate(time.Second)
	require.NoError(t, repo.TouchLastLogin(ctx, user.ID, at))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.WithinDuration(t, at, *got.LastLogin, time.Second)
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := newTestUser("alice")
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.UpdatePasswordHash(ctx, user.ID, "new-hash"))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
}

func TestUserRepository_Delete(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := newTestUser("alice")
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.FindByUsername(ctx, "alice")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_List(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("alice")))
	require.NoError(t, repo.Create(ctx, newTestUser("bob")))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}
