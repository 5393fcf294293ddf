package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/leonfashion/fashionshop-backend/api/routes"
	"github.com/leonfashion/fashionshop-backend/internal/auth"
	"github.com/leonfashion/fashionshop-backend/internal/categories"
	"github.com/leonfashion/fashionshop-backend/internal/customers"
	"github.com/leonfashion/fashionshop-backend/internal/email"
	"github.com/leonfashion/fashionshop-backend/internal/notifications"
	"github.com/leonfashion/fashionshop-backend/internal/orders"
	"github.com/leonfashion/fashionshop-backend/internal/permissions"
	"github.com/leonfashion/fashionshop-backend/internal/products"
	"github.com/leonfashion/fashionshop-backend/internal/roles"
	"github.com/leonfashion/fashionshop-backend/internal/sliders"
	"github.com/leonfashion/fashionshop-backend/internal/users"
	"github.com/leonfashion/fashionshop-backend/pkg/config"
	"github.com/leonfashion/fashionshop-backend/pkg/db"
	"github.com/leonfashion/fashionshop-backend/pkg/env"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
	"github.com/leonfashion/fashionshop-backend/pkg/metrics"
	"github.com/leonfashion/fashionshop-backend/pkg/migrate"
	"github.com/leonfashion/fashionshop-backend/pkg/redis"
	"github.com/leonfashion/fashionshop-backend/pkg/storage"
)

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
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.FeatureFlags.AutoMigrate {
		sqlDB, err := dbClient.DB().DB()
		if err != nil {
			logg.Error(context.Background(), "failed to unwrap sql database", err)
			os.Exit(1)
		}
		if err := migrate.Run(context.Background(), sqlDB, migrate.Dialect(cfg.DB.Driver), migrate.DefaultDir, logg); err != nil {
			logg.Error(context.Background(), "failed to run migrations", err)
			os.Exit(1)
		}
	}

	if cfg.FeatureFlags.SeedRoles {
		if err := db.SeedDefaultRoles(context.Background(), dbClient, logg); err != nil {
			logg.Error(context.Background(), "failed to seed default roles", err)
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, auth rate limiting disabled")
	}

	fileStore, err := storage.NewLocal(cfg.Storage.RootDir)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap file storage", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	customersRepo := customers.NewRepository(dbClient.DB())
	rolesRepo := roles.NewRepository(dbClient.DB())
	permissionsRepo := permissions.NewRepository(dbClient.DB())
	categoriesRepo := categories.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	slidersRepo := sliders.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())

	notificationsService := notifications.NewService(notificationsRepo, notifications.NewHTTPWebhookPoster(cfg.Webhook), logg)
	emailSender := email.NewLogSender(cfg.Email, logg)

	authService := auth.NewService(usersRepo, customersRepo, notificationsService, emailSender, cfg.JWT, cfg.Password, logg)
	adminRegisterService := auth.NewAdminRegisterService(usersRepo, rolesRepo, cfg.JWT, cfg.Password, logg)
	usersService := users.NewService(usersRepo, rolesRepo, cfg.Password, logg)
	customersService := customers.NewService(customersRepo, ordersRepo, logg)
	rolesService := roles.NewService(rolesRepo, permissionsRepo, logg)
	permissionsService := permissions.NewService(permissionsRepo, logg)
	categoriesService := categories.NewService(categoriesRepo, logg)
	productsService := products.NewService(productsRepo, categoriesRepo, fileStore, logg)
	slidersService := sliders.NewService(slidersRepo, logg)

	principalResolver := auth.NewResolver(usersRepo, customersRepo)
	metricsRegistry := metrics.NewRegistry()

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			metricsRegistry,
			principalResolver,
			fileStore,
			authService,
			adminRegisterService,
			usersService,
			customersService,
			rolesService,
			permissionsService,
			categoriesService,
			productsService,
			slidersService,
			notificationsService,
			ordersRepo,
		),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			_ = server.Close()
		}
	}
}
