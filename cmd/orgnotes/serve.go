package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orgnotes/orgnotes/db"
	"github.com/orgnotes/orgnotes/internal/auth"
	"github.com/orgnotes/orgnotes/internal/handlers"
	"github.com/orgnotes/orgnotes/internal/router"
	"github.com/orgnotes/orgnotes/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), v)
		},
	}

	cmd.Flags().String("port", "", "port to listen on")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))

	return cmd
}

func serve(ctx context.Context, v *viper.Viper) error {
	cfg, log, database, err := bootstrap(v)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := db.MigrateDatabase(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return err
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	sm := services.NewServiceManager(database, tokens, hasher, log)
	hm := handlers.NewHandlerManager(sm, database, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.NewRouter(router.Options{
		Config:      cfg,
		Handlers:    hm,
		AuthService: sm.AuthService,
		Registry:    reg,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return nil
}
