package main

import (
	"context"
	"os"
	"time"

	"woocrm/internal/config"
	"woocrm/internal/database"
	"woocrm/internal/features/auth"
	"woocrm/internal/features/woocommerce"
	"woocrm/internal/logger"
	"woocrm/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Seed creates the admin user and the default sync settings, then shuts the
// app down. Both steps are idempotent.
func Seed(
	lc fx.Lifecycle,
	userRepo auth.UserRepository,
	settingsRepo woocommerce.SettingsRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Seeding database...")

				email := os.Getenv("ADMIN_EMAIL")
				if email == "" {
					email = "admin@woocrm.local"
				}
				password := os.Getenv("ADMIN_PASSWORD")
				if password == "" {
					password = "admin123"
				}

				existing, err := userRepo.FindByEmail(ctx, email)
				if err != nil && err != mongo.ErrNoDocuments {
					logger.Fatal("Failed to look up admin user", zap.Error(err))
				}
				if existing != nil {
					logger.Info("Admin user exists, skipping", zap.String("email", email))
				} else {
					hash, err := utils.HashPassword(password)
					if err != nil {
						logger.Fatal("Failed to hash admin password", zap.Error(err))
					}
					admin := &auth.User{
						Email:        email,
						PasswordHash: hash,
						FullName:     "Administrator",
						Role:         "admin",
						IsActive:     true,
						CreatedAt:    time.Now(),
						UpdatedAt:    time.Now(),
					}
					if err := userRepo.Create(ctx, admin); err != nil {
						logger.Fatal("Failed to create admin user", zap.Error(err))
					}
					logger.Info("Admin user created", zap.String("email", email))
				}

				// Get inserts the defaults when no settings document exists.
				settings, err := settingsRepo.Get(ctx)
				if err != nil {
					logger.Fatal("Failed to seed sync settings", zap.Error(err))
				}
				logger.Info("Sync settings ready",
					zap.Bool("auto_sync_enabled", settings.AutoSyncEnabled),
					zap.Int("full_sync_hour", settings.FullSyncHour))

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			auth.NewUserRepository,
			woocommerce.NewSettingsRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
