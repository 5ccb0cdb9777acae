// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/liverylibrary/backend/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every model migrated.
// The pool holds a single connection, so code under test must use the
// transaction handle for every query issued inside a transaction.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.AutoMigrate(model.All()...))
	return conn
}

func CreateUser(t testing.TB, conn *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, conn.WithContext(context.Background()).Create(u).Error)
	return u
}

func CreateLivery(t testing.TB, conn *gorm.DB, author *model.User, name, aircraft string, tags ...string) *model.Livery {
	t.Helper()
	if tags == nil {
		tags = []string{}
	}
	l := &model.Livery{
		Name:     name,
		Aircraft: aircraft,
		AuthorID: author.ID,
		Tags:     tags,
		DecalIDs: []string{},
		Images:   []string{},
	}
	require.NoError(t, conn.Create(l).Error)
	return l
}

func CreateDetailKit(t testing.TB, conn *gorm.DB, author *model.User, name string) *model.DetailKit {
	t.Helper()
	d := &model.DetailKit{
		Name:         name,
		Aircraft:     "A320",
		AuthorID:     author.ID,
		DownloadLink: "https://files.example.com/" + name + ".zip",
		Tags:         []string{},
		Images:       []string{},
	}
	require.NoError(t, conn.Create(d).Error)
	return d
}
