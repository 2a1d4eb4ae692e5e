package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/gaonbazar/gaonbazar-backend/api/routes"
	"github.com/gaonbazar/gaonbazar-backend/internal/assistant"
	"github.com/gaonbazar/gaonbazar-backend/internal/cart"
	"github.com/gaonbazar/gaonbazar-backend/internal/listings"
	"github.com/gaonbazar/gaonbazar-backend/internal/orders"
	"github.com/gaonbazar/gaonbazar-backend/internal/quality"
	"github.com/gaonbazar/gaonbazar-backend/pkg/config"
	"github.com/gaonbazar/gaonbazar-backend/pkg/db"
	"github.com/gaonbazar/gaonbazar-backend/pkg/logger"
	"github.com/gaonbazar/gaonbazar-backend/pkg/metrics"
	"github.com/gaonbazar/gaonbazar-backend/pkg/migrate"
	"github.com/gaonbazar/gaonbazar-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
	} else {
		logg.Warn(ctx, "redis not configured, idempotency replay and chat rate limiting are off")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	engine, err := loadAssistant(cfg.Assistant)
	if err != nil {
		return err
	}
	conversations := assistant.NewConversations(engine, assistant.WithTopicObserver(metrics.NewAssistantMetrics(registry)))
	sessions := cart.NewSessions(cart.WithObserver(metrics.NewCartMetrics(registry)))
	scorer := quality.NewScorer(quality.BandsFromConfig(cfg.Quality), rand.New(rand.NewSource(time.Now().UnixNano())))

	listingService, err := listings.NewService(listings.ServiceParams{
		Repo:   listings.NewRepository(dbClient.DB()),
		Scorer: scorer,
	})
	if err != nil {
		return err
	}
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo: orders.NewRepository(dbClient.DB()),
		Tx:   dbClient,
	})
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"db_driver": cfg.DB.Driver,
		"redis":     redisClient != nil,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			registry,
			httpMetrics,
			dbClient,
			redisClient,
			sessions,
			conversations,
			scorer,
			listingService,
			orderService,
			time.Now,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sweepIdleSessions(gctx, cfg.Sessions, logg, map[string]idleSweeper{
			"cart":      sessions,
			"assistant": conversations,
		})
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func loadAssistant(cfg config.AssistantConfig) (*assistant.Engine, error) {
	if cfg.RulesPath == "" {
		return assistant.Default()
	}
	return assistant.LoadRulesFile(cfg.RulesPath)
}
