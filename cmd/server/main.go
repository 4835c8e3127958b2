package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/evidentia/evidentia-backend/internal/api/middleware"
	"github.com/evidentia/evidentia-backend/internal/api/rest"
	"github.com/evidentia/evidentia-backend/internal/audit"
	"github.com/evidentia/evidentia-backend/internal/config"
	"github.com/evidentia/evidentia-backend/internal/engine"
	"github.com/evidentia/evidentia-backend/internal/pkg/logger"
	"github.com/evidentia/evidentia-backend/internal/query"
	"github.com/evidentia/evidentia-backend/internal/repository"
	"github.com/evidentia/evidentia-backend/internal/service"
	"github.com/evidentia/evidentia-backend/migrations"
)

func main() {
	log := logger.StdLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	repo, err := repository.NewSQLiteRepository(cfg.DatabasePath)
	if err != nil {
		log.Error("failed to open database", "error", err, "path", cfg.DatabasePath)
		os.Exit(1)
	}
	defer repo.Close()
	if err := repo.RunMigrations(migrations.InitialSchema); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	sink, err := audit.NewFileSink(cfg.AuditEventLogPath)
	if err != nil {
		log.Error("failed to open audit event log", "error", err, "path", cfg.AuditEventLogPath)
		os.Exit(1)
	}
	defer sink.Close()
	writer := audit.NewLogWriter(sink, log,
		audit.WithMaskFields(cfg.MaskFields),
		audit.WithContinueOnError(),
	)

	log.Info("audit query store",
		"database", cfg.AuditGlueDatabase,
		"table", cfg.AuditGlueTable,
		"workgroup", cfg.AthenaWorkgroup,
	)

	auditService := service.NewAuditService(service.Deps{
		Engine: engine.NewMemoryEngine(),
		Repo:   repo,
		Store: query.StoreRef{
			Database: cfg.AuditGlueDatabase,
			Table:    cfg.AuditGlueTable,
		},
		SourceIPMaskBits:   cfg.SourceIPMaskBits,
		SourceIPValidation: cfg.SourceIPValidation,
		Log:                log,
	})

	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.StructuredLog)
	router.Use(middleware.AuditEvent(writer))

	handler := rest.NewHandler(auditService)
	rest.SetupRoutes(router, handler)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.ResponseRequestIDHeader},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      c.Handler(router),
		ReadTimeout:  time.Duration(cfg.RequestTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
}
