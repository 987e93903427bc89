package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/openshelf/catalog-api/internal/api"
	"github.com/openshelf/catalog-api/internal/api/handler"
	"github.com/openshelf/catalog-api/internal/core/ports"
	"github.com/openshelf/catalog-api/internal/core/service"
	"github.com/openshelf/catalog-api/internal/infrastructure/objectstore"
	"github.com/openshelf/catalog-api/internal/infrastructure/queue"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	client, store, err := connectStore(ctx)
	if err != nil {
		// The catalog still serves from snapshot and source without Redis,
		// but the gallery cannot, so refuse to start half-configured.
		return err
	}
	defer client.Close()

	sessions, err := newSessionService()
	if err != nil {
		return err
	}

	var objects ports.ObjectStore
	if cfg.S3.Bucket != "" {
		s3store, err := objectstore.New(ctx, objectstore.Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return err
		}
		objects = s3store
	} else {
		log.Warn().Msg("S3_BUCKET not set, image deletion will only update the gallery index")
	}

	g, gctx := errgroup.WithContext(ctx)

	cache := newCacheTier(store)
	warmer := queue.NewWarmer(cfg.Catalog.Warmers, cache, log)
	warmer.Start(gctx)
	catalogSvc := newCatalogService(cache, warmer)

	gallery := newGalleryService(store)

	e := api.NewRouter(api.Deps{
		Sessions:    sessions,
		Credentials: service.NewPasswordChecker(cfg.Session.OwnerPasswordHash, cfg.Session.AdminPasswordHash),
		Catalog:     catalogSvc,
		Gallery:     gallery,
		Images:      service.NewImageService(objects, gallery, cfg.S3.ImagePrefix, log),
		Health:      store,
		SourcePath:  cfg.Catalog.SourcePath,
		CatalogCache: handler.CacheOptions{
			MaxAge:               cfg.Catalog.MaxAge,
			StaleWhileRevalidate: cfg.Catalog.StaleWhileRevalidate,
		},
		LoginRateLimit: cfg.LoginRateLimit,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Strs("languages", cfg.Catalog.Languages).Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	warmer.Wait()
	return err
}
