package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/leave-api/api/swagger"
	"github.com/noah-isme/leave-api/internal/handler"
	"github.com/noah-isme/leave-api/internal/repository"
	"github.com/noah-isme/leave-api/internal/service"
	"github.com/noah-isme/leave-api/pkg/config"
	"github.com/noah-isme/leave-api/pkg/database"
	"github.com/noah-isme/leave-api/pkg/logger"
)

// @title Leave Application API
// @version 1.0.0
// @description Employee leave requests, manager review and dashboard statistics
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if db == nil {
		logr.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err != nil {
		logr.Warn("database unreachable at startup", zap.Error(err))
	}

	var schema *database.SchemaBootstrap
	if cfg.Database.AutoMigrate {
		schema = database.NewSchemaBootstrap(db, logr)
		go func() {
			if err := schema.Run(ctx, 5*time.Second); err != nil && !errors.Is(err, context.Canceled) {
				logr.Warn("schema bootstrap stopped", zap.Error(err))
			}
		}()
	}

	metricsSvc := service.NewMetricsService()
	validate := service.NewValidator()
	credentials := service.NewCredentialService(service.CredentialConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	userRepo := repository.NewUserRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)

	authSvc := service.NewAuthService(userRepo, credentials, validate, logr, metricsSvc)
	leaveSvc := service.NewLeaveService(leaveRepo, validate, logr, metricsSvc)

	leaveHandler := handler.NewLeaveHandler(leaveSvc, nil)
	if cfg.Leave.ExportsEnabled {
		leaveHandler = handler.NewLeaveHandler(leaveSvc, service.NewExportService(leaveRepo, logr, nil, nil))
	}

	metricsHandler := handler.NewMetricsHandler(metricsSvc.Handler(), db, logr)
	if schema != nil {
		metricsHandler.WithSchema(schema)
	}

	router := handler.NewRouter(handler.RouterDeps{
		Config:   cfg,
		Logger:   logr,
		Verifier: credentials,
		Observer: metricsSvc,
		Auth:     handler.NewAuthHandler(authSvc),
		Leave:    leaveHandler,
		Metrics:  metricsHandler,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Warn("server shutdown error", zap.Error(err))
	}
}
