package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"

	"github.com/bgbghq67-sys/banga-photobooth-admin/controllers"
	"github.com/bgbghq67-sys/banga-photobooth-admin/core"
	"github.com/bgbghq67-sys/banga-photobooth-admin/internal/ledger"
	"github.com/bgbghq67-sys/banga-photobooth-admin/jobs"
	"github.com/bgbghq67-sys/banga-photobooth-admin/routers"
)

func main() {
	godotenv.Load()

	cfg := core.LoadConfig()

	logger, err := core.NewLogger(cfg.Environment)
	if err != nil {
		panic(err)
	}

	var deviceStore ledger.DeviceStore
	if cfg.MongoURI == "" && cfg.IsDebug() {
		logger.Warn("no store URI configured, using in-memory store")
		deviceStore = ledger.NewMemoryStore()
	} else {
		store, err := core.NewStore(cfg, logger)
		if err != nil {
			panic(err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			store.Close(ctx)
		}()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
		err = ledger.EnsureIndexes(ctx, store.Database)
		cancel()
		if err != nil {
			panic(err)
		}

		deviceStore = ledger.NewMongoStore(store.Database)
	}

	deviceLedger := ledger.New(deviceStore, logger.With("component", "ledger"))

	engine := gin.Default()
	err = engine.SetTrustedProxies(nil)
	if err != nil {
		panic(err)
	}

	router := routers.Router{
		HealthController: &controllers.HealthController{
			Ledger: deviceLedger,
			Logger: logger.With("controller", "health"),
			Config: cfg,
		},
		DevicesController: &controllers.DevicesController{
			Ledger: deviceLedger,
			Logger: logger.With("controller", "devices"),
			Config: cfg,
		},
		ClientController: &controllers.ClientController{
			Ledger: deviceLedger,
			Logger: logger.With("controller", "client"),
			Config: cfg,
		},
	}

	logger.Info("Initializing jobs...")
	if !cfg.IsDebug() {
		staleDevicesJob := jobs.StaleDevicesJob{
			Ledger: deviceLedger,
			Logger: logger.With("job", "stale-devices"),
			Config: cfg,
		}

		scheduler := gocron.NewScheduler(time.UTC)
		scheduler.SetMaxConcurrentJobs(1, gocron.RescheduleMode)
		scheduler.Every(1).Hour().Do(func() {
			staleDevicesJob.Run()
		})
		scheduler.StartAsync()
	}

	logger.Info("Registering routes...")
	router.RegisterRoutes(engine)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.BodyReadTimeout,
		ReadHeaderTimeout: cfg.BodyReadTimeout,
	}

	go func() {
		logger.Infow("Launching API server...", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorw("forced shutdown", "error", err)
	}
}
