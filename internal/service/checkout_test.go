package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/models"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/payment"
)

type fakeGateway struct {
	failWith   error
	chargeID   string
	lastAmount int64
	lastToken  string
	lastKey    string
	calls      int
}

func (f *fakeGateway) Charge(_ context.Context, amount int64, _ string, sourceToken, idempotencyKey string) (payment.Charge, error) {
	f.calls++
	f.lastAmount = amount
	f.lastToken = sourceToken
	f.lastKey = idempotencyKey
	if f.failWith != nil {
		return payment.Charge{}, f.failWith
	}
	return payment.Charge{ID: f.chargeID, Amount: amount}, nil
}

type failingOrders struct {
	OrderStore
}

func (failingOrders) PlaceOrder(context.Context, *models.Order) error {
	return errors.New("disk on fire")
}

func TestCheckout_HappyPath(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	user := seedUser(t, repo, "buyer@example.com")
	shoes := seedItem(t, repo, "Sick Shoes", 500, user.ID)
	hat := seedItem(t, repo, "Sick Hat", 999, user.ID)

	cartSvc := &CartService{Cart: repo, Items: repo}
	ctx := context.Background()
	_, err := cartSvc.AddToCart(ctx, user.ID, shoes.ID)
	require.NoError(t, err)
	_, err = cartSvc.AddToCart(ctx, user.ID, shoes.ID)
	require.NoError(t, err)
	_, err = cartSvc.AddToCart(ctx, user.ID, hat.ID)
	require.NoError(t, err)

	gw := &fakeGateway{chargeID: "ch_123"}
	svc := &CheckoutService{Cart: repo, Orders: repo, Gateway: gw}

	order, err := svc.Checkout(ctx, user.ID, "tok_visa")
	require.NoError(t, err)

	// 2*500 + 1*999, recomputed server-side
	assert.Equal(t, int64(1999), gw.lastAmount)
	assert.Equal(t, "tok_visa", gw.lastToken)
	assert.NotEmpty(t, gw.lastKey)

	assert.Equal(t, int64(1999), order.Total)
	assert.Equal(t, "ch_123", order.Charge)
	require.Len(t, order.Items, 2)

	var lineSum int64
	for _, li := range order.Items {
		lineSum += li.Price * li.Quantity
	}
	assert.Equal(t, order.Total, lineSum)

	lines, err := repo.CartLines(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines, "cart must be cleared after checkout")

	stored, err := repo.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

func TestCheckout_SnapshotSurvivesItemEdits(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	user := seedUser(t, repo, "buyer@example.com")
	item := seedItem(t, repo, "Sick Shoes", 500, user.ID)

	cartSvc := &CartService{Cart: repo, Items: repo}
	ctx := context.Background()
	_, err := cartSvc.AddToCart(ctx, user.ID, item.ID)
	require.NoError(t, err)

	svc := &CheckoutService{Cart: repo, Orders: repo, Gateway: &fakeGateway{chargeID: "ch_1"}}
	order, err := svc.Checkout(ctx, user.ID, "tok_visa")
	require.NoError(t, err)

	// reprice the live item after purchase
	item.Price = 9999
	require.NoError(t, repo.UpdateItem(ctx, item))

	stored, err := repo.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, int64(500), stored.Items[0].Price)
	assert.Equal(t, int64(500), stored.Total)
}

func TestCheckout_EmptyCart(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	user := seedUser(t, repo, "buyer@example.com")

	gw := &fakeGateway{chargeID: "ch_1"}
	svc := &CheckoutService{Cart: repo, Orders: repo, Gateway: gw}

	_, err := svc.Checkout(context.Background(), user.ID, "tok_visa")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, gw.calls, "empty cart must never reach the gateway")
}

func TestCheckout_RequiresSession(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	svc := &CheckoutService{Cart: repo, Orders: repo, Gateway: &fakeGateway{}}

	_, err := svc.Checkout(context.Background(), 0, "tok_visa")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCheckout_GatewayFailureMutatesNothing(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	user := seedUser(t, repo, "buyer@example.com")
	item := seedItem(t, repo, "Sick Shoes", 500, user.ID)

	cartSvc := &CartService{Cart: repo, Items: repo}
	ctx := context.Background()
	_, err := cartSvc.AddToCart(ctx, user.ID, item.ID)
	require.NoError(t, err)

	gw := &fakeGateway{failWith: errors.New("card declined")}
	svc := &CheckoutService{Cart: repo, Orders: repo, Gateway: gw}

	_, err = svc.Checkout(ctx, user.ID, "tok_visa")
	assert.ErrorIs(t, err, ErrPaymentFailed)

	lines, err := repo.CartLines(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1, "cart must survive a failed charge")

	var count int64
	require.NoError(t, repo.DB.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCheckout_PostChargeInconsistency(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	user := seedUser(t, repo, "buyer@example.com")
	item := seedItem(t, repo, "Sick Shoes", 500, user.ID)

	cartSvc := &CartService{Cart: repo, Items: repo}
	ctx := context.Background()
	_, err := cartSvc.AddToCart(ctx, user.ID, item.ID)
	require.NoError(t, err)

	gw := &fakeGateway{chargeID: "ch_orphan"}
	svc := &CheckoutService{Cart: repo, Orders: failingOrders{}, Gateway: gw}

	_, err = svc.Checkout(ctx, user.ID, "tok_visa")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPostChargeInconsistency)
	assert.Contains(t, err.Error(), "ch_orphan", "the orphaned charge id must be reported")
	assert.Equal(t, 1, gw.calls)
}

func TestCheckout_IgnoresClientAmounts(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	user := seedUser(t, repo, "buyer@example.com")
	item := seedItem(t, repo, "Sick Shoes", 123, user.ID)

	cartSvc := &CartService{Cart: repo, Items: repo}
	ctx := context.Background()
	_, err := cartSvc.AddToCart(ctx, user.ID, item.ID)
	require.NoError(t, err)

	// The checkout API takes only a source token; there is no way to pass an
	// amount. The charged figure is always the recomputed cart total.
	gw := &fakeGateway{chargeID: "ch_1"}
	svc := &CheckoutService{Cart: repo, Orders: repo, Gateway: gw}

	order, err := svc.Checkout(ctx, user.ID, "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, int64(123), gw.lastAmount)
	assert.Equal(t, int64(123), order.Total)
}
