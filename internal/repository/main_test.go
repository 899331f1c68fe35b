package repository

import (
	"fmt"
	"testing"

	"pixelpost/internal/cache"
	"pixelpost/internal/database"
	"pixelpost/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// withTestCache backs the cache package with a throwaway miniredis so
// repository tests can exercise the cache-aside paths. Without it the
// cache client is nil and every read goes straight to the database.
func withTestCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

// newTestDB opens a fresh in-memory SQLite database with the full
// schema. Each test gets its own database, so tests stay independent.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, ownerID uint, caption string) *models.Post {
	t.Helper()

	post := &models.Post{
		OwnerID:       ownerID,
		Caption:       caption,
		ImagePublicID: "posts/" + caption,
		ImageURL:      "/media/posts/" + caption + ".jpg",
	}
	require.NoError(t, db.Create(post).Error)
	return post
}
