package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/fest-registration-api/internal/database"
	"github.com/yukikurage/fest-registration-api/internal/identity"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

type stubSource struct {
	values []uint32
	calls  int
}

func (s *stubSource) Next(*gorm.DB) (uint32, error) {
	v := s.values[s.calls]
	s.calls++
	return v, nil
}

func TestUserRepository_CreateWithNumericID_Sequential(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	var last uint32
	for i := 0; i < 3; i++ {
		user := &models.User{Email: fmt.Sprintf("user%d@fest.test", i), PasswordHash: "x"}
		require.NoError(t, repo.CreateWithNumericID(ctx, user))
		assert.Greater(t, user.NumericID, last)
		assert.NotEmpty(t, user.PublicID)
		last = user.NumericID
	}
	assert.Equal(t, uint32(10003), last)
}

func TestUserRepository_CreateWithNumericID_Concurrent(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db, nil)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.CreateWithNumericID(context.Background(), &models.User{
				Email:        fmt.Sprintf("c%d@fest.test", i),
				PasswordHash: "x",
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var ids []int
	require.NoError(t, db.Model(&models.User{}).Pluck("numeric_id", &ids).Error)
	sort.Ints(ids)
	require.Len(t, ids, n)
	for i, id := range ids {
		assert.Equal(t, 10001+i, id)
	}
}

func TestUserRepository_CreateWithNumericID_RetriesOnCollision(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.User{NumericID: 10001, PublicID: identity.NewPublicID(), Email: "first@fest.test", PasswordHash: "x"}).Error)

	src := &stubSource{values: []uint32{10001, 10002}}
	repo := NewUserRepository(db, src)

	user := &models.User{Email: "second@fest.test", PasswordHash: "x"}
	require.NoError(t, repo.CreateWithNumericID(context.Background(), user))
	assert.Equal(t, uint32(10002), user.NumericID)
	assert.Equal(t, 2, src.calls)
}

func TestUserRepository_CreateWithNumericID_GivesUp(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.User{NumericID: 10001, PublicID: identity.NewPublicID(), Email: "first@fest.test", PasswordHash: "x"}).Error)

	src := &stubSource{values: []uint32{10001, 10001, 10001, 10001, 10001}}
	repo := NewUserRepository(db, src)

	err := repo.CreateWithNumericID(context.Background(), &models.User{Email: "second@fest.test", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrNumericIDConflict)
}

func TestUserRepository_CreateWithNumericID_EmailTaken(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.CreateWithNumericID(ctx, &models.User{Email: "dup@fest.test", PasswordHash: "x"}))
	err := repo.CreateWithNumericID(ctx, &models.User{Email: " DUP@fest.test ", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserRepository_UpdateRecomputesProfile(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	user := &models.User{Email: "p@fest.test", PasswordHash: "x"}
	require.NoError(t, repo.CreateWithNumericID(ctx, user))
	assert.False(t, user.ProfileCompleted)

	user.Department, user.College, user.Phone, user.USN = "CSE", "X", "9876543210", "1XX20CS001"
	require.NoError(t, repo.Update(ctx, user))

	stored, err := repo.FindByEmail(ctx, "P@fest.test")
	require.NoError(t, err)
	assert.True(t, stored.ProfileCompleted)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
