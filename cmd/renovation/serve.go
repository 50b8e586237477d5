package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/markremodeling/renovation"
	"github.com/markremodeling/renovation/internal/api"
	"github.com/markremodeling/renovation/internal/blob"
	"github.com/markremodeling/renovation/internal/contact"
	"github.com/markremodeling/renovation/internal/db"
	"github.com/markremodeling/renovation/internal/ratelimit"
	"github.com/markremodeling/renovation/pkg/analyzer"
	"github.com/markremodeling/renovation/pkg/assistant"
	"github.com/markremodeling/renovation/pkg/catalog"
	"github.com/markremodeling/renovation/pkg/processing"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long:  `Serve the JSON API, the site pages and uploaded images until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		database, err := db.NewDB(cfg.Storage.DBPath, logger)
		if err != nil {
			return err
		}
		defer database.Close()

		blobs, err := blob.NewDiskStore(cfg.Storage.BlobDir, cfg.Storage.PublicPrefix, database, logger.Named("blob"))
		if err != nil {
			return err
		}

		aiClient, err := renovation.NewClient(ctx, cfg.AI)
		if err != nil {
			return fmt.Errorf("failed to create AI client: %w", err)
		}

		limiter := ratelimit.New(cfg.Contact.RateLimitWindow(), cfg.Contact.RateLimitMax, logger.Named("ratelimit"))
		company := catalog.DefaultCompany()

		server, err := api.NewServer(api.Options{
			Assistant: assistant.New(aiClient, cfg.AI.Models, company),
			Contact:   contact.NewService(database, limiter, logger.Named("contact")),
			Leads:     database,
			Blobs:     blobs,
			Analyzer: analyzer.NewWithConfig(analyzer.Config{
				MaxBytes:         cfg.Images.MaxUploadBytes(),
				SupportedFormats: cfg.Images.SupportedFormats,
				MinImageSize:     cfg.Images.MinImageSize,
			}),
			Processor:     processing.NewProcessor(),
			Company:       company,
			AdminToken:    cfg.Server.AdminToken,
			ThumbnailSize: cfg.Images.ThumbnailSize,
			Logger:        logger.Named("api"),
		})
		if err != nil {
			return err
		}

		logger.Info("starting renovation server",
			zap.String("version", renovation.Version),
			zap.String("addr", cfg.Server.Addr),
			zap.String("ai_backend", cfg.AI.Backend),
			zap.Bool("admin_token", cfg.Server.AdminToken != ""),
		)

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return server.ListenAndServe(ctx, api.HTTPConfig{
				Addr:            cfg.Server.Addr,
				ReadTimeout:     seconds(cfg.Server.ReadTimeoutSeconds),
				WriteTimeout:    seconds(cfg.Server.WriteTimeoutSeconds),
				ShutdownTimeout: seconds(cfg.Server.ShutdownTimeoutSeconds),
			})
		})
		g.Go(func() error {
			return limiter.Run(ctx)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("server stopped")
		return nil
	},
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
