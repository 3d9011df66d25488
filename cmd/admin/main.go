// Command admin is the operator tool: it seeds administrator accounts and
// triages cases directly against the database.
package main

import (
	"context"
	"fmt"
	"os"

	"denuncia/backend/internal/config"
	"denuncia/backend/internal/followup"
	"denuncia/backend/internal/notify"
	"denuncia/backend/internal/session"
	"denuncia/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	logger *zap.Logger
	cfg    config.Config
	store  *storage.Service
)

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Operator tool for the denúncia service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if logger, err = config.NewLogger(cfg.LogLevel); err != nil {
			return err
		}
		db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		store = storage.NewStorageService(db, rdb)
		return store.Migrate()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.AddCommand(createAdminCmd(), listCmd(), showCmd(), setStatusCmd(), replyCmd())
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// service builds the follow-up service. Events still go out on Redis, so
// connected clients see CLI changes; staff are not notified of their own actions.
func service() *followup.Service {
	return followup.NewService(store, notify.Noop{}, logger)
}

// actingAs opens a session for the administrator with email. The token is
// never printed; it only carries the identity into the service calls.
func actingAs(ctx context.Context, email string) (*session.Session, error) {
	if email == "" {
		return nil, fmt.Errorf("--as is required")
	}
	admin, err := store.GetAdminByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("administrator %s: %w", email, err)
	}
	return session.NewManager(cfg.JWTSecret, cfg.SessionTTL, nil).Issue(admin)
}
