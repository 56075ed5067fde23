package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/guestbites/guestbites/internal/config"
)

var cfg *config.Config

// envFiles are loaded in order; values already set are never overridden,
// so .env.local wins over .env.
var envFiles = []string{".env.local", ".env"}

var rootCmd = &cobra.Command{
	Use:   "guestbites",
	Short: "ZIP-keyed restaurant guides for short-term rental guests",
	Long:  "Finds restaurants near a ZIP code via Foursquare with an OpenStreetMap fallback, sorts them into meal buckets, and serves shareable guest guides.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFiles(envFiles...); err != nil {
			return fmt.Errorf("load env: %w", err)
		}

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func loadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
