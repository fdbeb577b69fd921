package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/explorer-docs/docaug/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [site-dir]",
	Short: "Serve a rendered site, augmenting pages as they are requested",
	Long: `Starts a local HTTP server for the site directory. HTML pages are augmented
on the fly using the explorer address that matches the request host, so
pages opened on localhost link to the local explorer.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.SiteDir = args[0]
		}
		if cmd.Flags().Changed("port") {
			cfg.Serve.Port, _ = cmd.Flags().GetInt("port")
		}
		if info, err := os.Stat(cfg.SiteDir); err != nil || !info.IsDir() {
			return fmt.Errorf("site directory %s not found\nBuild the site first, e.g. with `docaug build`", cfg.SiteDir)
		}

		srv := server.New(cfg, nil, log)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			log.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "Serving %s at http://localhost:%d, press Ctrl+C to stop\n", cfg.SiteDir, cfg.Serve.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().Int("port", 8000, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
