package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/njprem/storefront/internal/config"
	"github.com/njprem/storefront/internal/logging"
	"github.com/njprem/storefront/internal/repository/ports"
	"github.com/njprem/storefront/internal/repository/postgres"
	"github.com/njprem/storefront/internal/repository/redis"
	"github.com/njprem/storefront/internal/service"
	httptransport "github.com/njprem/storefront/internal/transport/http"
	"github.com/njprem/storefront/internal/util"
)

const serviceName = "storefront-api"

func main() {
	cfg := config.Load()
	boot := logging.New(logging.Options{
		Service:     serviceName,
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg)
	stop()
	if err != nil {
		boot.Error().Err(err).Msg("storefront api stopped")
		os.Exit(1)
	}
}

// run serves until ctx is done. Every resource it opens is released before it
// returns, including on startup failures.
func run(ctx context.Context, cfg config.Config) error {
	var extra []io.Writer
	if cfg.LogstashTCPAddr != "" {
		lw, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			return fmt.Errorf("logstash writer: %w", err)
		}
		defer lw.Close()
		extra = append(extra, lw)
	}
	log := logging.New(logging.Options{
		Service:     serviceName,
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
		Extra:       extra,
	})

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	counts, closeCounts := favoriteCountCache(ctx, cfg, log)
	defer closeCounts()

	users := postgres.NewUserRepo(db)
	sessions := postgres.NewSessionRepo(db)
	products := postgres.NewProductRepo(db)
	favorites := postgres.NewFavoriteRepo(db)
	orders := postgres.NewOrderRepo(db)

	authSvc := service.NewAuthService(users, sessions, util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL))
	catalogSvc := service.NewCatalogService(products)
	favoriteSvc := service.NewFavoriteService(favorites, products, counts, log).WithCountTTL(cfg.FavoriteCountTTL)
	orderSvc := service.NewOrderService(orders, products, cfg.OrderCancelWindow)

	metrics := httptransport.NewMetrics()
	e := httptransport.NewRouter(httptransport.RouterConfig{
		AllowOrigins: cfg.AllowOrigins,
		Logger:       log,
		Metrics:      metrics,
	})
	httptransport.RegisterSwagger(e, cfg.SwaggerSpecPath)
	httptransport.RegisterAuth(e, authSvc)
	httptransport.RegisterProducts(e, catalogSvc)
	httptransport.RegisterFavorites(e, authSvc, favoriteSvc, metrics)
	httptransport.RegisterOrders(e, authSvc, orderSvc, metrics)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Dur("cancel_window", orderSvc.CancelWindow()).
			Bool("favorite_count_cache", counts != nil).
			Msg("storefront api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// favoriteCountCache returns a nil cache when Redis is not configured or
// unreachable; counts are then read straight from Postgres. The returned
// func closes the Redis client and is always safe to call.
func favoriteCountCache(ctx context.Context, cfg config.Config, log zerolog.Logger) (ports.FavoriteCountCache, func()) {
	noop := func() {}
	if cfg.RedisAddr == "" {
		return nil, noop
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	client, err := redis.New(pingCtx, redis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, favorite counts will not be cached")
		return nil, noop
	}
	return redis.NewFavoriteCountCache(client), func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}
}
