package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estoque/internal/database"
	"estoque/internal/handlers"
	"estoque/internal/repositories"
	"estoque/internal/services"
	"estoque/pkg/config"
	"estoque/pkg/logger"
	"estoque/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const demoMovementCount = 60

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.JWT.Ephemeral {
		log.Warn().Msg("JWT_SECRET not set, using a random secret for this process; tokens will not survive a restart")
	}

	app, cleanup, err := buildApp(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build application")
	}
	defer cleanup()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("starting server")
		if err := app.Listen(cfg.App.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during fiber shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}

// buildApp wires storage, the optional Redis and RabbitMQ backends and the HTTP layer.
// The returned cleanup releases every opened resource.
func buildApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- Database ---
	db, err := database.Open(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	})
	if err := database.Migrate(db); err != nil {
		cleanup()
		return nil, nil, err
	}
	if cfg.App.SeedDemo {
		rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
		n, err := database.SeedDemoData(ctx, db, rng, demoMovementCount)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		log.Info().Int("products", n).Msg("demo data seeded")
	}

	checks := []func(context.Context) error{
		func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	// --- Revoked token store ---
	var tokens repositories.TokenStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			cleanup()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		checks = append(checks, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		tokens = repositories.NewRedisTokenStore(rdb, "")
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis token store")
	} else {
		tokens = repositories.NewMemoryTokenStore()
		log.Warn().Msg("REDIS_ADDR not set, revoked tokens are kept in memory")
	}

	// --- Inventory events ---
	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL}, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := mq.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close RabbitMQ client")
			}
		})
		publisher = mq

		eventHandler := services.NewInventoryEventHandler(log.Component("InventoryEvents"))
		if err := mq.ConsumeEvents(eventHandler.Handle); err != nil {
			log.Error().Err(err).Msg("failed to start RabbitMQ consumer")
		}
	} else {
		log.Warn().Msg("RABBITMQ_URL not set, inventory events are not published")
	}

	// --- Repositories and services ---
	productRepo := repositories.NewGORMProductRepository(db)
	movementRepo := repositories.NewGORMMovementRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	if n, err := productRepo.Count(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to count products")
	} else {
		log.Info().Int64("products", n).Msg("catalog loaded")
	}

	authService := services.NewAuthService(userRepo, tokens, cfg.JWT.Secret, cfg.JWT.TTL)
	productService := services.NewProductService(productRepo, movementRepo, publisher, log.Component("ProductService"))
	movementService := services.NewMovementService(movementRepo, publisher, log.Component("MovementService"))

	app := handlers.NewApp(handlers.Dependencies{
		Auth:      authService,
		Products:  productService,
		Movements: movementService,
		Log:       log,
		AccessLog: os.Stdout,
		Health: func(ctx context.Context) error {
			for _, check := range checks {
				if err := check(ctx); err != nil {
					return err
				}
			}
			return nil
		},
	})
	return app, cleanup, nil
}
