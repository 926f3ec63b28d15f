package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"catalog/internal/api"
	"catalog/internal/auth"
	"catalog/internal/catalog"
	mydb "catalog/internal/db"
	"catalog/internal/importer"
	"catalog/internal/media"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Run schema migration before serving")
}

func runServe(ctx context.Context) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if autoMigrate {
		if err := mydb.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// токены: redis, если задан REDIS_ADDR, иначе таблица access_tokens
	var tokens auth.TokenStore = auth.NewDBTokenStore(db, cfg.TokenTTL)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		tokens = auth.NewRedisTokenStore(rdb, cfg.TokenTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis token store")
	}

	if err := os.MkdirAll(cfg.StorageRoot, 0o755); err != nil {
		return err
	}
	store := media.NewStore(cfg.StorageRoot, cfg.AppURL)
	cat := catalog.New(db, store, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(api.Deps{
		Config:   cfg,
		DB:       db,
		Catalog:  cat,
		Importer: importer.New(cat),
		Auth:     auth.NewService(db, tokens),
		Log:      log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutdownDone := make(chan struct{}, 1)
	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		shutdownDone <- struct{}{}
	}()

	log.Info().Str("addr", srv.Addr).Str("env", cfg.AppEnv).Msg("server listening")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownDone
	log.Info().Msg("shutdown completed")
	return nil
}
