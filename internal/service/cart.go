package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/events"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/models"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/repository"
)

type CartService struct {
	Cart     CartStore
	Items    ItemStore
	Producer *events.Producer
}

// AddToCart puts one unit of the item into the user's cart. A line already
// holding the item gets its quantity incremented, never a second row.
func (s *CartService) AddToCart(ctx context.Context, userID, itemID uint) (models.CartItem, error) {
	if userID == 0 {
		return models.CartItem{}, ErrUnauthenticated
	}

	if _, err := s.Items.FindItem(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.CartItem{}, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
		}
		return models.CartItem{}, err
	}

	line, err := s.Cart.AddOne(ctx, userID, itemID)
	if err != nil {
		return models.CartItem{}, err
	}

	s.Producer.Publish(ctx, strconv.FormatUint(uint64(userID), 10), map[string]any{
		"type":     "cart_item_added",
		"user_id":  userID,
		"item_id":  itemID,
		"quantity": line.Quantity,
	})
	return line, nil
}

// RemoveFromCart deletes a cart line. Only the owner may remove it.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, cartItemID uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}

	line, err := s.Cart.FindCartItem(ctx, cartItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("cart item %d: %w", cartItemID, ErrNotFound)
		}
		return err
	}
	if line.UserID != userID {
		return fmt.Errorf("cart item %d belongs to another user: %w", cartItemID, ErrForbidden)
	}

	if err := s.Cart.DeleteCartItem(ctx, cartItemID); err != nil {
		return err
	}

	s.Producer.Publish(ctx, strconv.FormatUint(uint64(userID), 10), map[string]any{
		"type":    "cart_item_removed",
		"user_id": userID,
		"id":      cartItemID,
	})
	return nil
}

func (s *CartService) Lines(ctx context.Context, userID uint) ([]models.CartItem, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	return s.Cart.CartLines(ctx, userID)
}

// CartTotal sums price*quantity over the lines in integer minor units.
func CartTotal(lines []models.CartItem) int64 {
	var total int64
	for _, line := range lines {
		total += line.Item.Price * line.Quantity
	}
	return total
}
