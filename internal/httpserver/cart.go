package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/logging"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/money"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/service"
)

type CartHandler struct {
	Svc *service.CartService
}

func (h *CartHandler) GetCart(c echo.Context) error {
	lines, err := h.Svc.Lines(c.Request().Context(), currentUserID(c))
	if err != nil {
		return httpError(err)
	}
	total := service.CartTotal(lines)
	return c.JSON(http.StatusOK, map[string]any{
		"items":         lines,
		"total":         total,
		"total_display": money.Format(total),
	})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req struct {
		ItemID uint `json:"item_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ItemID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "item_id required")
	}

	line, err := h.Svc.AddToCart(ctx, currentUserID(c), req.ItemID)
	if err != nil {
		l.Warn("add to cart failed", "item_id", req.ItemID, "error", err)
		return httpError(err)
	}

	l.Info("item added to cart", "item_id", req.ItemID, "quantity", line.Quantity)
	return c.JSON(http.StatusOK, line)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.RemoveFromCart(ctx, currentUserID(c), id); err != nil {
		l.Warn("remove from cart failed", "cart_item_id", id, "error", err)
		return httpError(err)
	}

	l.Info("cart item removed", "cart_item_id", id)
	return c.JSON(http.StatusOK, map[string]any{"deleted_item": id})
}
