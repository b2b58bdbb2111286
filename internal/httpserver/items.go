package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/logging"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/service"
)

type ItemHandler struct {
	Svc *service.ItemService
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func paramID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.create")

	var in service.ItemInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.CreateItem(ctx, currentUser(c), in)
	if err != nil {
		l.Warn("create item failed", "error", err)
		return httpError(err)
	}

	l.Info("item created", "item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.update")

	id, err := paramID(c)
	if err != nil {
		return err
	}

	var in service.ItemInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateItem(ctx, currentUser(c), id, in)
	if err != nil {
		l.Warn("update item failed", "item_id", id, "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.delete")

	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteItem(ctx, currentUser(c), id); err != nil {
		l.Warn("delete item failed", "item_id", id, "error", err)
		return httpError(err)
	}

	l.Info("item deleted", "item_id", id)
	return c.JSON(http.StatusOK, map[string]any{"deleted_item": id})
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	item, err := h.Svc.GetItem(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) GetItems(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 0)

	result, err := h.Svc.ListItems(c.Request().Context(), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *ItemHandler) SearchItems(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 0)

	result, err := h.Svc.SearchItems(c.Request().Context(), c.QueryParam("q"), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}
