package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/logging"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/service"
)

type UserHandler struct {
	Svc *service.UserService
}

// Me returns the signed-in user, or null for an anonymous request. The
// frontend polls this on every page, so no error for missing sessions.
func (h *UserHandler) Me(c echo.Context) error {
	userID := currentUserID(c)
	if userID == 0 {
		return c.JSON(http.StatusOK, nil)
	}

	user, err := h.Svc.Me(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.Svc.ListUsers(c.Request().Context(), currentUser(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) UpdatePermissions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update_permissions")

	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req struct {
		Permissions []string `json:"permissions"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdatePermissions(ctx, currentUser(c), id, req.Permissions)
	if err != nil {
		l.Warn("update permissions failed", "target_id", id, "error", err)
		return httpError(err)
	}

	l.Info("permissions updated", "target_id", id, "permissions", req.Permissions)
	return c.JSON(http.StatusOK, user)
}
