// Command followup is the terminal client for following a report: reporters
// use their follow-up code, administrators sign in and work by case id.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"denuncia/backend/internal/client"
	"denuncia/backend/internal/config"
	"denuncia/backend/internal/localization"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serverURL    string
	lang         string
	sessionToken string
	logLevel     string

	logger *zap.Logger
	loc    = localization.Default()
)

var rootCmd = &cobra.Command{
	Use:           "followup",
	Short:         "Follow up on a report",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = config.NewLogger(logLevel)
		if err != nil {
			return err
		}
		lang = localization.Normalize(lang)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("DENUNCIA_SERVER", "http://localhost:8080"), "service base URL")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", envOr("LANG", localization.DefaultLang), "interface language")
	rootCmd.PersistentFlags().StringVar(&sessionToken, "session", os.Getenv("DENUNCIA_SESSION"), "administrator session token")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level")

	rootCmd.AddCommand(submitCmd(), loginCmd(), viewCmd(), sendCmd(), statusCmd(), followCmd())
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newClient() *client.Client {
	return client.New(serverURL, client.WithSessionToken(sessionToken))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
