package commands

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Kerhoff/ShopWizard/internal/api"
	"github.com/Kerhoff/ShopWizard/internal/config"
	"github.com/Kerhoff/ShopWizard/internal/handlers"
	"github.com/Kerhoff/ShopWizard/internal/idempotency"
	"github.com/Kerhoff/ShopWizard/internal/repository/postgres"
	"github.com/Kerhoff/ShopWizard/internal/service"
	"github.com/Kerhoff/ShopWizard/internal/telegram"
	"github.com/Kerhoff/ShopWizard/internal/weather"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(rt *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), rt.cfg, rt.log)
		},
	}
}

func serve(parent context.Context, cfg *config.Config, log *logrus.Logger) (err error) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting ShopWizard...")

	// Database
	db, err := config.NewDatabase(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			err = multierror.Append(err, fmt.Errorf("close database: %w", cerr))
		}
	}()

	// Run migrations
	if err := db.Migrate(cfg.MigrationsPath); err != nil {
		return err
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db.DB)
	shopListRepo := postgres.NewShopListRepository(db.DB)
	contactRepo := postgres.NewContactRepository(db.DB)

	// Service layer
	svc := service.New(log, postgres.NewTransactor(db.DB), userRepo, shopListRepo, contactRepo)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	// Telegram bot
	bot, err := telegram.NewBot(cfg.BotToken, cfg.TelegramBaseURL, httpClient, log)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	if cfg.WebhookURL != "" {
		if err := bot.SetWebhook(cfg.WebhookURL); err != nil {
			return err
		}
	}

	weatherClient := weather.NewClient(cfg.GeoURL, cfg.WeatherURL, cfg.HTTPTimeout, log)

	router := telegram.NewRouter(bot, svc, log)
	handlers.Register(router, svc, weatherClient, log)

	// Update de-duplication
	var dedup idempotency.Deduplicator
	if cfg.RedisURL != "" {
		var client *redis.Client
		client, err = idempotency.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() {
			if cerr := client.Close(); cerr != nil {
				err = multierror.Append(err, fmt.Errorf("close redis: %w", cerr))
			}
		}()
		dedup = idempotency.NewRedisDeduplicator(client, cfg.UpdateTTL, log)
		log.Info("Update de-duplication enabled")
	}

	server := api.NewServer(svc, router, dedup, db, log)

	log.Info("ShopWizard started successfully")
	if err := api.Serve(ctx, ":"+cfg.Port, server.Handler(), shutdownTimeout, log); err != nil {
		return err
	}

	log.Info("ShopWizard stopped")
	return nil
}
