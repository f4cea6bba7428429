package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/amirhossein5/facestore/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "facestore",
	Short: "Store face encodings and match new images against them",
	Long: `facestore keeps one face encoding per name in a SQLite database and
tells you which stored face a new image matches. Faces can be enrolled and
looked up through a small web UI or in bulk from two directories.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional YAML config file")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// loadConfig loads the configuration and the logger every command uses.
// Logs go to stderr so that command output on stdout stays clean.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, config.NewLogger(cfg, os.Stderr), nil
}
