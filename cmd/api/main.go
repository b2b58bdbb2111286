package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/config"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/db"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/events"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/httpserver"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/logging"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/mail"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/metrics"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/payment"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/repository"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/search"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/service"
)

const gatewayTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.AppSecret, "APP_SECRET")
	config.MustNonEmpty(cfg.StripeKey, "STRIPE_SECRET")

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	repo := repository.New(gdb)

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	searchIndex, err := search.New(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		log.Fatalf("search init error: %v", err)
	}

	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.MailFrom,
	})

	gateway := payment.NewGateway(cfg.StripeURL, cfg.StripeKey, gatewayTimeout)

	authSvc := &service.AuthService{Users: repo, Mailer: mailer, FrontendURL: cfg.FrontendURL}
	itemSvc := &service.ItemService{Items: repo, Producer: producer, Search: searchIndex}
	cartSvc := &service.CartService{Cart: repo, Items: repo, Producer: producer}
	checkoutSvc := &service.CheckoutService{Cart: repo, Orders: repo, Gateway: gateway, Producer: producer}
	userSvc := &service.UserService{Users: repo, Orders: repo}

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
	}))
	e.Use(httpserver.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:  &httpserver.AuthHandler{Svc: authSvc, AppSecret: cfg.AppSecret},
		ItemHandler:  &httpserver.ItemHandler{Svc: itemSvc},
		CartHandler:  &httpserver.CartHandler{Svc: cartSvc},
		OrderHandler: &httpserver.OrderHandler{Checkout: checkoutSvc, Users: userSvc},
		UserHandler:  &httpserver.UserHandler{Svc: userSvc},
		AppSecret:    cfg.AppSecret,
		Users:        repo,
		Metrics:      metrics.NewServerMetrics(),
	})

	go func() {
		logger.Info("starting api", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
}
