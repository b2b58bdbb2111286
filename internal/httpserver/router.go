package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/metrics"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/service"
)

type Deps struct {
	AuthHandler  *AuthHandler
	ItemHandler  *ItemHandler
	CartHandler  *CartHandler
	OrderHandler *OrderHandler
	UserHandler  *UserHandler

	AppSecret []byte
	Users     service.UserStore
	Metrics   *metrics.ServerMetrics
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api/v1")
	if d.Metrics != nil {
		api.Use(d.Metrics.Middleware)
	}
	api.Use(WithUser(d.AppSecret, d.Users))

	api.POST("/signup", d.AuthHandler.Signup)
	api.POST("/signin", d.AuthHandler.Signin)
	api.POST("/signout", d.AuthHandler.Signout)
	api.POST("/request-reset", d.AuthHandler.RequestReset)
	api.POST("/reset-password", d.AuthHandler.ResetPassword)

	api.GET("/me", d.UserHandler.Me)

	api.GET("/items", d.ItemHandler.GetItems)
	api.GET("/items/search", d.ItemHandler.SearchItems)
	api.GET("/items/:id", d.ItemHandler.GetItem)

	signedIn := api.Group("", RequireLogin)

	signedIn.POST("/items", d.ItemHandler.CreateItem)
	signedIn.PATCH("/items/:id", d.ItemHandler.UpdateItem)
	signedIn.DELETE("/items/:id", d.ItemHandler.DeleteItem)

	signedIn.GET("/cart", d.CartHandler.GetCart)
	signedIn.POST("/cart", d.CartHandler.AddToCart)
	signedIn.DELETE("/cart/:id", d.CartHandler.RemoveFromCart)

	signedIn.POST("/orders", d.OrderHandler.CreateOrder)
	signedIn.GET("/orders", d.OrderHandler.MyOrders)
	signedIn.GET("/orders/:id", d.OrderHandler.GetOrder)

	signedIn.GET("/users", d.UserHandler.ListUsers)
	signedIn.PATCH("/users/:id/permissions", d.UserHandler.UpdatePermissions)
}
