package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirhossein5/facestore/internal/dbconnection"
	"github.com/amirhossein5/facestore/internal/uploads"
	"github.com/amirhossein5/facestore/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the web UI. Known faces are enrolled via /upload_known and
unknown faces are looked up via /upload_unknown.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = mustGetInt(cmd, "port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = mustGetString(cmd, "host")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := uploads.EnsureDirs(cfg.Uploads.Dirs()...); err != nil {
		return err
	}

	faces, db, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer dbconnection.Close(db)

	rec, err := newRecognizer(cfg, log)
	if err != nil {
		return err
	}
	defer rec.Close()

	server := web.NewServer(cfg, faces, rec, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("error during shutdown", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		return err
	}
	<-shutdownDone
	return nil
}
