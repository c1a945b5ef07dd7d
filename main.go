package main

import (
	"context"
	"errors"
	"hashimg/internal/adapters/converter"
	"hashimg/internal/adapters/decoder"
	"hashimg/internal/adapters/handler"
	"hashimg/internal/adapters/metrics"
	"hashimg/internal/adapters/origin"
	"hashimg/internal/adapters/storage"
	"hashimg/internal/config"
	"hashimg/internal/core/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.Info().Msg("starting hashimg...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	zerolog.SetGlobalLevel(cfg.Server.Level())
	zerolog.DefaultContextLogger = &log.Logger

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	signer, err := storage.NewS3Signer(ctx, storage.S3Config{
		Endpoint:        cfg.S3.Endpoint,
		Bucket:          cfg.S3.Bucket,
		Region:          cfg.S3.Region,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		UsePathStyle:    cfg.S3.UsePathStyle,
		URLExpiry:       cfg.S3.URLExpiry,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed initializing s3 signer")
	}

	fetcher := origin.NewFetcher(origin.Config{
		Timeout:            cfg.Origin.Timeout,
		InsecureSkipVerify: cfg.Origin.InsecureSkipVerify,
		MaxBodyBytes:       cfg.Origin.MaxBodyBytes,
	})

	recorder := metrics.NewRecorder()
	dec := decoder.NewDecoder(decoder.Config{MaxPixels: cfg.Decoder.MaxPixels})
	images := service.NewImages(signer, fetcher, dec, converter.NewImaging(), recorder)

	if cfg.Server.Level() != zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewRouter(images, recorder, handler.RouterConfig{
		EnableCORS: cfg.Server.EnableCORS,
		Metrics:    recorder.Handler(),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("address", cfg.Server.Address).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}

	log.Info().Msg("bye")
}
