package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	api "github.com/mind-engage/quiz-answers/internal/api/http"
	"github.com/mind-engage/quiz-answers/internal/answers"
	"github.com/mind-engage/quiz-answers/internal/answers/builtin"
	"github.com/mind-engage/quiz-answers/internal/config"
	"github.com/mind-engage/quiz-answers/internal/db"
	"github.com/mind-engage/quiz-answers/internal/exam"
	"github.com/mind-engage/quiz-answers/internal/logging"
	"github.com/mind-engage/quiz-answers/internal/metrics"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  `Start the HTTP API. Every flag can also be set through the environment, e.g. DB_DRIVER=postgres DB_DSN=postgres://...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.Load(v))
		},
	}
	cmd.Flags().String("http-addr", ":8080", "listen address")
	cmd.Flags().String("db-driver", "sqlite", "storage backend (memory, sqlite, postgres)")
	cmd.Flags().String("db-dsn", "", "database DSN; empty uses the driver default")
	_ = v.BindPFlag("http_addr", cmd.Flags().Lookup("http-addr"))
	_ = v.BindPFlag("db_driver", cmd.Flags().Lookup("db-driver"))
	_ = v.BindPFlag("db_dsn", cmd.Flags().Lookup("db-dsn"))
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logging.New(cfg)
	defer func() { _ = log.Sync() }()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	registry := answers.NewRegistry()
	if err := builtin.RegisterAll(registry); err != nil {
		log.Error("serializer registration failed", zap.Error(err))
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("db open failed", zap.String("driver", cfg.DBDriver), zap.Error(err))
		return err
	}
	defer closeStore()

	svc := exam.NewService(store, registry)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(svc, log, cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	log.Info("listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("mode", string(cfg.Mode)),
		zap.String("db", cfg.DBDriver),
		zap.Strings("serializers", registry.Keys()),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (exam.Store, func(), error) {
	if cfg.DBDriver == "memory" {
		return exam.NewInMemoryStore(), func() {}, nil
	}
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	return exam.NewSQLStore(dbh, cfg.DBDriver), func() { _ = dbh.Close() }, nil
}
