package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apporder "github.com/glowshop/backend/internal/application/order"
	apppayment "github.com/glowshop/backend/internal/application/payment"
	appsync "github.com/glowshop/backend/internal/application/sync"
	"github.com/glowshop/backend/internal/infrastructure/config"
	"github.com/glowshop/backend/internal/infrastructure/logger"
	"github.com/glowshop/backend/internal/infrastructure/notify"
	infrapayment "github.com/glowshop/backend/internal/infrastructure/payment"
	"github.com/glowshop/backend/internal/infrastructure/persistence"
	"github.com/glowshop/backend/internal/infrastructure/scheduler"
	infrasync "github.com/glowshop/backend/internal/infrastructure/sync"
	"github.com/glowshop/backend/internal/interfaces/http/handler"
	"github.com/glowshop/backend/internal/interfaces/http/middleware"
	"github.com/glowshop/backend/internal/interfaces/http/router"
)

func main() {
	configPath := flag.String("config", "", "path to the config directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shop backend",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db)

	// Application services
	notifier := notify.NewMailNotifier(log)
	cartService := apporder.NewCartService(orderRepo, txScope, log)
	checkoutService := apporder.NewCheckoutService(orderRepo, txScope, notifier, log)

	gateway, err := infrapayment.NewVNPayAdapter(&infrapayment.VNPayConfig{
		TmnCode:    cfg.VNPay.TmnCode,
		HashSecret: cfg.VNPay.HashSecret,
		PaymentURL: cfg.VNPay.PaymentURL,
		ReturnURL:  cfg.VNPay.ReturnURL,
		Locale:     cfg.VNPay.Locale,
	})
	if err != nil {
		log.Fatal("Failed to configure payment gateway", zap.Error(err))
	}
	paymentService := apppayment.NewService(orderRepo, txScope, gateway, notifier, cfg.VNPay.Location(), log)

	// Background jobs
	jobs := scheduler.New(log)
	defer jobs.StopAll()

	if cfg.Sync.Enabled {
		reaper := scheduler.NewPaymentReaper(orderRepo, checkoutService, cfg.Sync.PaymentTimeout(), log)
		if err := jobs.Start("payment-reaper", time.Minute, reaper.Run); err != nil {
			log.Fatal("Failed to start payment reaper", zap.Error(err))
		}

		clients := make([]appsync.PlatformClient, 0, len(cfg.Sync.Channels))
		for _, ch := range cfg.Sync.Channels {
			client, err := infrasync.NewChannelClient(infrasync.ChannelConfig{
				Source:      ch.Source,
				BaseURL:     ch.BaseURL,
				AccessToken: ch.AccessToken,
			})
			if err != nil {
				log.Fatal("Failed to configure sales channel", zap.String("source", ch.Source), zap.Error(err))
			}
			clients = append(clients, client)
		}
		if len(clients) > 0 {
			importer := appsync.NewImporter(orderRepo, txScope, clients, log)
			if err := jobs.Start("order-sync", cfg.Sync.SyncInterval(), importer.Run); err != nil {
				log.Fatal("Failed to start order sync", zap.Error(err))
			}
			log.Info("Order sync started",
				zap.Int("channels", len(clients)),
				zap.Duration("interval", cfg.Sync.SyncInterval()))
		}
	}

	// HTTP surface
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.Logging(log))

	auth := middleware.Auth(cfg.Auth.JWTSecret, cfg.Auth.DevMode)

	orderHandler := handler.NewOrderHandler(cartService, checkoutService, log)
	paymentHandler := handler.NewPaymentHandler(paymentService, log)
	systemHandler := handler.NewSystemHandler(db)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(router.OrderRoutes{Handler: orderHandler, Auth: auth}).
		Register(router.PaymentRoutes{Handler: paymentHandler, Auth: auth}).
		Register(router.SystemRoutes{Handler: systemHandler})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
