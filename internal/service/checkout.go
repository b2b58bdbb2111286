package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/events"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/logging"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/models"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/payment"
)

const chargeCurrency = "USD"

type CheckoutService struct {
	Cart     CartStore
	Orders   OrderStore
	Gateway  payment.Charger
	Producer *events.Producer
}

// Checkout turns the user's cart into an order. The total is recomputed here
// from the persisted cart, a client-supplied amount is never trusted. The
// gateway is charged first; on success the order snapshot and the cart
// teardown commit in one transaction.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, sourceToken string) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	lines, err := s.Cart.CartLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", ErrValidation)
	}

	total := CartTotal(lines)

	// One key per checkout attempt: a gateway-level retry of this exact call
	// can never double-charge.
	idempotencyKey := uuid.NewString()
	charge, err := s.Gateway.Charge(ctx, total, chargeCurrency, sourceToken, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	order := &models.Order{
		UserID: userID,
		Total:  charge.Amount,
		Charge: charge.ID,
		Items:  snapshotLines(lines),
	}

	if err := s.Orders.PlaceOrder(ctx, order); err != nil {
		logging.FromContext(ctx).Error("order persistence failed after successful charge",
			"user_id", userID, "charge_id", charge.ID, "amount", charge.Amount, "error", err)
		return nil, fmt.Errorf("%w: charge %s for %d: %v", ErrPostChargeInconsistency, charge.ID, charge.Amount, err)
	}

	s.Producer.Publish(ctx, strconv.FormatUint(uint64(userID), 10), map[string]any{
		"type":     "order_created",
		"user_id":  userID,
		"order_id": order.ID,
		"total":    order.Total,
		"charge":   order.Charge,
	})
	return order, nil
}

// snapshotLines copies item fields into detached order lines so later edits
// to the live items leave historical orders untouched.
func snapshotLines(lines []models.CartItem) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			Title:       line.Item.Title,
			Description: line.Item.Description,
			Image:       line.Item.Image,
			Price:       line.Item.Price,
			Quantity:    line.Quantity,
		})
	}
	return items
}
