// Package dbtest opens throwaway in-memory stores for tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thereayou/voxus/internal/database"
	"github.com/thereayou/voxus/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// New returns a migrated store backed by a private shared-cache sqlite database.
func New(t *testing.T) *database.Database {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// one connection serializes writers, sqlite shared cache otherwise reports table locks
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := database.NewDatabase(gdb)
	require.NoError(t, db.Migrate())
	return db
}

// CreateUser inserts a user with the given nick.
func CreateUser(t *testing.T, db *database.Database, nick string) *models.User {
	t.Helper()

	user := &models.User{
		Nick:         nick,
		Email:        nick + "@example.com",
		PasswordHash: "x",
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.SaveUser(context.Background(), user))
	return user
}
