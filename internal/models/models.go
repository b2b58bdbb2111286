package models

import (
	"time"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/permission"
)

// All prices are integer minor currency units (cents).

type Item struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"not null"                 json:"title"`
	Description string `gorm:"not null"                 json:"description"`
	Image       string `json:"image"`
	LargeImage  string `json:"large_image"`
	Price       int64  `gorm:"not null"                 json:"price"`
	UserID      uint   `gorm:"index;not null"           json:"user_id"`
}

type User struct {
	ID               uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string         `gorm:"not null"                 json:"name"`
	Email            string         `gorm:"unique;not null"          json:"email"`
	PasswordHash     string         `gorm:"not null"                 json:"-"`
	Permissions      permission.Set `gorm:"serializer:json;not null" json:"permissions"`
	ResetToken       string         `gorm:"index"                    json:"-"`
	ResetTokenExpiry *time.Time     `json:"-"`
}

type CartItem struct {
	ID       uint  `gorm:"primaryKey;autoIncrement"                json:"id"`
	UserID   uint  `gorm:"uniqueIndex:idx_cart_user_item;not null" json:"user_id"`
	ItemID   uint  `gorm:"uniqueIndex:idx_cart_user_item;not null" json:"item_id"`
	Quantity int64 `gorm:"default:1;check:quantity>0"              json:"quantity"`
	Item     Item  `gorm:"foreignKey:ItemID"                       json:"item"`
}

type Order struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint        `gorm:"index;not null"           json:"user_id"`
	Total     int64       `gorm:"not null"                 json:"total"`
	Charge    string      `gorm:"not null"                 json:"charge"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
}

// OrderItem is a snapshot of the purchased item. It carries no foreign key
// back to items so later price or title edits never alter historical orders.
type OrderItem struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     uint   `gorm:"index;not null"           json:"order_id"`
	Title       string `gorm:"not null"                 json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Price       int64  `gorm:"not null"                 json:"price"`
	Quantity    int64  `gorm:"not null"                 json:"quantity"`
}
