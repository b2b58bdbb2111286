package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/logging"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/models"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/service"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/session"
)

type AuthHandler struct {
	Svc       *service.AuthService
	AppSecret []byte
}

func (h *AuthHandler) issueSession(c echo.Context, user *models.User) error {
	token, err := session.Issue(h.AppSecret, user.ID, time.Now())
	if err != nil {
		return err
	}
	c.SetCookie(session.CreateCookie(token, time.Now().Add(session.TTL)))
	return nil
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Signup(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		l.Warn("signup failed", "error", err)
		return httpError(err)
	}
	if err := h.issueSession(c, user); err != nil {
		l.Error("session issue failed", "error", err)
		return httpError(err)
	}

	l.Info("user signed up", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Signin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signin")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Signin(ctx, req.Email, req.Password)
	if err != nil {
		l.Warn("signin failed", "error", err)
		return httpError(err)
	}
	if err := h.issueSession(c, user); err != nil {
		l.Error("session issue failed", "error", err)
		return httpError(err)
	}

	l.Info("user signed in", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Signout(c echo.Context) error {
	c.SetCookie(session.DeleteCookie())
	return c.JSON(http.StatusOK, map[string]string{"message": "Goodbye!"})
}

func (h *AuthHandler) RequestReset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.request_reset")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.RequestReset(ctx, req.Email); err != nil {
		l.Warn("reset request failed", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Thanks! Check your email."})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password")

	var req struct {
		ResetToken      string `json:"reset_token"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.ResetPassword(ctx, req.ResetToken, req.Password, req.ConfirmPassword)
	if err != nil {
		l.Warn("password reset failed", "error", err)
		return httpError(err)
	}
	if err := h.issueSession(c, user); err != nil {
		l.Error("session issue failed", "error", err)
		return httpError(err)
	}

	l.Info("password reset", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}
