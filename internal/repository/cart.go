package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/models"
)

// AddOne merges duplicate lines: an existing (user, item) row gets its
// quantity bumped, otherwise a fresh row with quantity 1 is created. The
// increment runs as a single UPDATE inside a transaction so two concurrent
// adds from the same user never lose a count.
func (r *GormRepo) AddOne(ctx context.Context, userID, itemID uint) (models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND item_id = ?", userID, itemID).
			Update("quantity", gorm.Expr("quantity + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Preload("Item").
				Where("user_id = ? AND item_id = ?", userID, itemID).
				First(&item).Error
		}

		item = models.CartItem{UserID: userID, ItemID: itemID, Quantity: 1}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return tx.Preload("Item").First(&item, item.ID).Error
	})
	if err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

func (r *GormRepo) FindCartItem(ctx context.Context, id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &item, nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.CartItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CartLines returns the user's cart with item details loaded for pricing.
func (r *GormRepo) CartLines(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var lines []models.CartItem
	if err := r.DB.WithContext(ctx).Preload("Item").
		Where("user_id = ?", userID).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
