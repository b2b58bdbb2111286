package service

import (
	"context"
	"time"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/models"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/permission"
)

// Persistence interfaces the services compose. internal/repository implements
// all of them over GORM; tests substitute fakes.

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserPermissions(ctx context.Context, userID uint, perms permission.Set) (*models.User, error)
	SaveResetToken(ctx context.Context, userID uint, token string, expiry time.Time) error
	FindUserByResetToken(ctx context.Context, token string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}

type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	FindItem(ctx context.Context, id uint) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id uint) error
	ListItems(ctx context.Context, offset, limit int) ([]models.Item, int64, error)
}

type CartStore interface {
	AddOne(ctx context.Context, userID, itemID uint) (models.CartItem, error)
	FindCartItem(ctx context.Context, id uint) (*models.CartItem, error)
	DeleteCartItem(ctx context.Context, id uint) error
	CartLines(ctx context.Context, userID uint) ([]models.CartItem, error)
}

type OrderStore interface {
	PlaceOrder(ctx context.Context, order *models.Order) error
	FindOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error)
}
