package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zenday/pricewatch/internal/auth"
	"github.com/zenday/pricewatch/internal/cart"
	"github.com/zenday/pricewatch/internal/config"
	"github.com/zenday/pricewatch/internal/database"
	"github.com/zenday/pricewatch/internal/kroger"
	"github.com/zenday/pricewatch/internal/products"
	"github.com/zenday/pricewatch/internal/scheduler"
)

func main() {
	_ = godotenv.Load() // load .env if present; not fatal if missing

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	// graceful shutdown coordination
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(database.DSN(cfg.DB)); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}
	pool, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}

	client := kroger.NewClient(cfg.Kroger, logger)
	repo := products.NewRepository(pool)
	pipeline := products.NewPipeline(repo, logger)
	tokens := auth.NewFileTokenStore(cfg.Kroger.TokenFile)

	// start scheduler; it runs until ctx is cancelled
	sched := scheduler.New(client, pipeline, scheduler.Config{
		Interval:    cfg.Watch.Interval(),
		Watchlist:   cfg.Watch.Watchlist,
		ZipCode:     cfg.Watch.ZipCode,
		SearchLimit: cfg.Watch.SearchLimit,
	}, logger)

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.Run(ctx)
	}()

	// build router and handlers
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())

	productHandler := products.NewHandler(repo, pipeline, client, logger)
	authHandler := auth.NewHandler(cfg.Kroger, tokens, logger)
	cartHandler := cart.NewHandler(client, tokens, logger)

	r.POST("/product/watch", productHandler.WatchProduct)
	r.GET("/products", productHandler.ListProducts)
	r.GET("/product/:id/history", productHandler.GetPriceHistory)

	r.GET("/auth/login", authHandler.Login)
	r.GET("/auth/callback", authHandler.Callback)

	r.GET("/cart", cartHandler.ViewCart)
	r.PUT("/cart/add", cartHandler.AddItem)
	r.DELETE("/cart/remove", cartHandler.RemoveItem)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// start server
	go func() {
		logger.Info("server started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server listen", zap.Error(err))
		}
	}()

	// wait for interrupt
	<-ctx.Done()
	logger.Info("shutdown signal received")

	// stop accepting new requests, allow 15s to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	// wait scheduler to finish (it reacts to ctx)
	wg.Wait()

	// close DB pool (blocks until connections returned)
	pool.Close()

	logger.Info("graceful shutdown complete")
}
