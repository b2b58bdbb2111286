package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/logging"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/money"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/service"
)

type OrderHandler struct {
	Checkout *service.CheckoutService
	Users    *service.UserService
}

// CreateOrder charges the gateway with the server-recomputed cart total and
// persists the order. The request carries only the payment source token.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.create")

	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "payment token required")
	}

	order, err := h.Checkout.Checkout(ctx, currentUserID(c), req.Token)
	if err != nil {
		l.Error("checkout failed", "error", err)
		return httpError(err)
	}

	l.Info("order created", "order_id", order.ID, "total", money.Format(order.Total), "charge", order.Charge)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	order, err := h.Users.GetOrder(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	orders, err := h.Users.MyOrders(c.Request().Context(), currentUserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}
