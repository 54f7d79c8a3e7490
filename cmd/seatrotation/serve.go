package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/seat-rotation/internal/application"
	"github.com/example/seat-rotation/internal/config"
	httptransport "github.com/example/seat-rotation/internal/http"
	"github.com/example/seat-rotation/internal/persistence/sqlite"
)

func newServeCmd(newLogger func() *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), newLogger())
		},
	}
}

func runServe(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return err
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		return err
	}

	groupRepo := sqlite.NewGroupRepository(pool)
	memberRepo := sqlite.NewMemberRepository(pool)
	arrangementRepo := sqlite.NewArrangementRepository(pool)
	calendarRepo := sqlite.NewCalendarRepository(pool)

	groupService := application.NewGroupService(groupRepo, memberRepo, uuid.NewString, time.Now, logger)
	calendarService := application.NewCalendarService(groupRepo, calendarRepo, logger)
	rotationService := application.NewRotationService(
		groupRepo, memberRepo, arrangementRepo, calendarRepo,
		time.Now, logger, cfg.PlanCacheTTL,
	)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Groups:     httptransport.NewGroupHandler(groupService, rotationService, logger),
		Calendar:   httptransport.NewCalendarHandler(calendarService, rotationService, logger),
		Rotation:   httptransport.NewRotationHandler(rotationService, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("seat rotation API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		return err
	}
	return nil
}
