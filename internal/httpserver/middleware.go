package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/logging"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/models"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/service"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/session"
)

const (
	ctxUserID = "user_id"
	ctxUser   = "user"
)

// WithUser decodes the session cookie and, when valid, attaches the user id
// and the loaded user to the request. It never rejects: open endpoints see
// an anonymous request, RequireLogin enforces where a session is mandatory.
func WithUser(secret []byte, users service.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			userID, err := session.Parse(secret, cookie.Value)
			if err != nil {
				c.SetCookie(session.DeleteCookie())
				return next(c)
			}

			user, err := users.FindUserByID(c.Request().Context(), userID)
			if err != nil {
				c.SetCookie(session.DeleteCookie())
				return next(c)
			}

			c.Set(ctxUserID, userID)
			c.Set(ctxUser, user)
			return next(c)
		}
	}
}

func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentUserID(c) == 0 {
			return echo.NewHTTPError(http.StatusUnauthorized, "you must be signed in")
		}
		return next(c)
	}
}

func currentUserID(c echo.Context) uint {
	if id, ok := c.Get(ctxUserID).(uint); ok {
		return id
	}
	return 0
}

func currentUser(c echo.Context) *models.User {
	if u, ok := c.Get(ctxUser).(*models.User); ok {
		return u
	}
	return nil
}

// RequestLogger stores a request-scoped slog logger into the context and
// emits one line per request.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)

			l := base.With(
				"method", c.Request().Method,
				"path", c.Path(),
				"remote_ip", c.RealIP(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}

			req := c.Request().WithContext(logging.IntoContext(c.Request().Context(), l))
			c.SetRequest(req)

			start := time.Now()
			err := next(c)
			dur := time.Since(start)
			status := c.Response().Status

			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
				status = c.Response().Status
			}

			switch {
			case err != nil || status >= 500:
				l.Error("request completed", "status", status, "duration_ms", dur.Milliseconds(), "error", errStr(err))
			case status >= 400:
				l.Warn("request completed", "status", status, "duration_ms", dur.Milliseconds())
			default:
				l.Info("request completed", "status", status, "duration_ms", dur.Milliseconds(), "bytes", c.Response().Size)
			}
			return nil
		}
	}
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
