package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scantools/zxbridge/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the barcode decode API",
	Long: `Start an HTTP server that provides REST and WebSocket endpoints for
barcode decoding.

The server provides the following endpoints:
  POST /decode   - Decode barcodes from an uploaded image
  GET  /ws       - WebSocket stream: one result set per image frame
  GET  /formats  - List supported barcode formats
  GET  /health   - Health check endpoint
  GET  /metrics  - Prometheus metrics

Examples:
  zxbridge serve
  zxbridge serve --port 8080
  zxbridge serve --host 0.0.0.0 --port 3000`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		serverConfig := server.Config{
			Host:              cfg.Server.Host,
			Port:              cfg.Server.Port,
			CORSOrigin:        cfg.Server.CORSOrigin,
			MaxUploadMB:       cfg.Server.MaxUploadMB,
			TimeoutSec:        cfg.Server.TimeoutSec,
			DefaultTryHarder:  cfg.Decode.TryHarder,
			DefaultFormats:    cfg.Decode.Formats,
			DefaultMaxSymbols: cfg.Decode.MaxSymbols,
			ReturnErrors:      cfg.Decode.ReturnErrors,
		}

		decodeServer := server.NewServer(serverConfig)
		mux := http.NewServeMux()
		decodeServer.SetupRoutes(mux)

		httpServer := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       time.Duration(cfg.Server.TimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(cfg.Server.TimeoutSec) * time.Second,
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		go func() {
			slog.Info("Starting decode server", "host", cfg.Server.Host, "port", cfg.Server.Port)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Server error", "error", err)
				cancel()
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
		case <-ctx.Done():
			slog.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		slog.Info("Shutting down HTTP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
			return err
		}
		slog.Info("HTTP server shutdown completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "host to bind the server to")
	serveCmd.Flags().Int("port", 8080, "port to listen on")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origin")
	serveCmd.Flags().Int64("max-upload-mb", 50, "maximum upload size in megabytes")
	serveCmd.Flags().Int("timeout", 30, "request timeout in seconds")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.cors_origin", serveCmd.Flags().Lookup("cors-origin"))
	_ = viper.BindPFlag("server.max_upload_mb", serveCmd.Flags().Lookup("max-upload-mb"))
	_ = viper.BindPFlag("server.timeout_sec", serveCmd.Flags().Lookup("timeout"))
}
