package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/hash"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/models"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/permission"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/repository"
)

func newTestRepo(t *testing.T) *repository.GormRepo {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return repository.New(db)
}

func seedUser(t *testing.T, repo *repository.GormRepo, email string, perms ...permission.Permission) *models.User {
	t.Helper()

	if len(perms) == 0 {
		perms = []permission.Permission{permission.User}
	}
	pwHash, err := hash.HashPassword("Secret123")
	require.NoError(t, err)

	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: pwHash,
		Permissions:  perms,
	}
	require.NoError(t, repo.DB.Create(user).Error)
	return user
}

func seedItem(t *testing.T, repo *repository.GormRepo, title string, price int64, ownerID uint) *models.Item {
	t.Helper()

	item := &models.Item{
		Title:       title,
		Description: title + " description",
		Price:       price,
		UserID:      ownerID,
	}
	require.NoError(t, repo.DB.Create(item).Error)
	return item
}
