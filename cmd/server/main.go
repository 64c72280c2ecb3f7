package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/images"
	"storefront/internal/logging"
	authmw "storefront/internal/middleware/auth"
	loggingmw "storefront/internal/middleware/logging"
	"storefront/internal/payment"
	"storefront/internal/service"
	"storefront/internal/store"
	httpserver "storefront/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo error: %v", err)
	}

	redis, err := cache.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis error: %v", err)
	}
	if err := redis.Ping(ctx); err != nil {
		log.Fatalf("redis ping error: %v", err)
	}

	imageStore, err := images.NewCloudinary(cfg.CloudinaryURL)
	if err != nil {
		log.Fatalf("cloudinary error: %v", err)
	}

	authService := &service.AuthService{
		Users:         db.Users,
		Cache:         redis,
		AccessSecret:  []byte(cfg.AccessSecret),
		RefreshSecret: []byte(cfg.RefreshSecret),
	}
	cartService := &service.CartService{Users: db.Users, Products: db.Products}
	couponService := &service.CouponService{Coupons: db.Coupons}
	productService := &service.ProductService{Products: db.Products, Cache: redis, Images: imageStore}
	checkoutService := &service.CheckoutService{
		Orders:   db.Orders,
		Coupons:  couponService,
		Payments: payment.NewStripe(cfg.StripeKey),
		ClientURL: cfg.ClientURL,
	}
	analyticsService := &service.AnalyticsService{Users: db.Users, Products: db.Products, Orders: db.Orders}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Guard:     &authmw.Guard{Auth: authService},
		Auth:      &handlers.AuthHandler{Auth: authService, SecureCookies: cfg.IsProduction()},
		Products:  &handlers.ProductHandler{Products: productService},
		Cart:      &handlers.CartHandler{Cart: cartService},
		Coupons:   &handlers.CouponHandler{Coupons: couponService},
		Payments:  &handlers.PaymentHandler{Checkout: checkoutService},
		Analytics: &handlers.AnalyticsHandler{Analytics: analyticsService},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := db.Disconnect(shutdownCtx); err != nil {
		logger.Error("mongo disconnect error", "error", err)
	}
	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	logger.Info("shutdown complete")
}
