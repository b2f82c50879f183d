package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ArslanEjaz61/carzar-backend/internal/cart"
	"github.com/ArslanEjaz61/carzar-backend/internal/checkout"
	"github.com/ArslanEjaz61/carzar-backend/internal/config"
	"github.com/ArslanEjaz61/carzar-backend/internal/db"
	"github.com/ArslanEjaz61/carzar-backend/internal/events"
	httpapi "github.com/ArslanEjaz61/carzar-backend/internal/http"
	"github.com/ArslanEjaz61/carzar-backend/internal/metrics"
	"github.com/ArslanEjaz61/carzar-backend/internal/order"
	"github.com/ArslanEjaz61/carzar-backend/internal/sequence"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[carzar-backend] ", log.LstdFlags|log.Lshortfile)

	// DB
	database := db.MustOpen(cfg.DatabaseDSN)
	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatalf("migrations: %v", err)
	}
	orderRepo := order.NewRepository(database)
	numbers := sequence.NewRepository(database)

	// Redis cart store
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	cartStore := cart.NewRedisStore(redisClient, cfg.CartTTL)
	cartSvc := cart.NewService(cartStore, logger)

	// RabbitMQ
	rabbitConn := events.MustDialRabbit()
	defer rabbitConn.Close()

	publisher, err := events.NewPublisher(rabbitConn)
	if err != nil {
		logger.Fatalf("create publisher: %v", err)
	}
	defer publisher.Close()

	pricing := checkout.Pricing{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		ShippingFee:           cfg.ShippingFee,
	}
	orchestrator := checkout.NewOrchestrator(orderRepo, cartSvc, numbers, publisher, pricing, logger)
	orderSvc := order.NewService(orderRepo, publisher, logger)

	// HTTP
	m := metrics.NewServerMetrics("api")
	router := httpapi.NewRouter(
		httpapi.NewCartHandler(cartSvc),
		httpapi.NewCheckoutHandler(cartSvc, orchestrator),
		httpapi.NewOrderHandler(orderRepo, orderSvc),
		m,
		cfg.CORSAllowOrigins,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Printf("carzar-backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = redisClient.Close()
	_ = database.Close()
}
