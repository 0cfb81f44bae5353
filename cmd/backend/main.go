package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/auth"
	"NYCU-SDC/survey-builder/internal/catalog"
	"NYCU-SDC/survey-builder/internal/config"
	"NYCU-SDC/survey-builder/internal/cors"
	"NYCU-SDC/survey-builder/internal/draft"
	"NYCU-SDC/survey-builder/internal/gateway"
	"NYCU-SDC/survey-builder/internal/jwt"
	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/template"
	"NYCU-SDC/survey-builder/internal/trace"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.6.1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var AppName = "no-app-name"

var Version = "no-version"

var BuildTime = "no-build-time"

var CommitHash = "no-commit-hash"

var Environment = "no-env"

const sweepInterval = time.Minute

func main() {
	AppName = os.Getenv("APP_NAME")
	if AppName == "" {
		AppName = "survey-builder"
	}

	if BuildTime == "no-build-time" {
		now := time.Now()
		BuildTime = "not provided (now: " + now.Format(time.RFC3339) + ")"
	}

	Environment = os.Getenv("ENV")
	if Environment == "" {
		Environment = "no-env"
	}

	appMetadata := []zap.Field{
		zap.String("app_name", AppName),
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit_hash", CommitHash),
		zap.String("environment", Environment),
	}

	cfg, cfgLog := config.Load()
	err := cfg.Validate()
	if err != nil {
		if errors.Is(err, config.ErrStorageURLRequired) {
			title := "Survey storage URL is required"
			message := "Please set the STORAGE_API_URL environment variable or provide a config file with the storage_api_url key."
			message = EarlyApplicationFailed(title, message)
			log.Fatal(message)
		} else {
			log.Fatalf("Failed to validate config: %v, exiting...", err)
		}
	}

	logger, err := initLogger(&cfg, appMetadata)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v, exiting...", err)
	}

	cfgLog.FlushToZap(logger)

	if cfg.JWTSecret == "" {
		logger.Warn("No JWT secret configured, token signatures are left to the storage service")
	}

	logger.Info("Starting application...")

	shutdown, err := initOpenTelemetry(AppName, Version, BuildTime, CommitHash, Environment, cfg.OtelCollectorUrl)
	if err != nil {
		logger.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
	}

	registry, err := questiontype.Default()
	if err != nil {
		logger.Fatal("Failed to load question types", zap.Error(err))
	}

	templates, err := template.Default()
	if err != nil {
		logger.Fatal("Failed to load survey templates", zap.Error(err))
	}

	validator := internal.NewValidator()
	problemWriter := internal.NewProblemWriter()

	// ============================================
	// Service
	// ============================================

	jwtService := jwt.NewService(logger, cfg.JWTSecret)
	remoteFactory := draft.GatewayFactory(logger, cfg.StorageAPIURL, gateway.WithTimeout(cfg.RequestTimeout))
	draftManager := draft.NewManager(logger, registry, templates, remoteFactory, cfg.SessionIdleTimeout, draft.WithAutoSaveDelay(cfg.AutoSaveDelay))

	// ============================================
	// Handler
	// ============================================

	authHandler := auth.NewHandler(logger, problemWriter, draftManager)
	catalogHandler := catalog.NewHandler(logger, validator, problemWriter, registry, templates)
	draftHandler := draft.NewHandler(logger, validator, problemWriter, draftManager, registry, cfg.LoginURL)

	// ============================================
	// Middleware
	// ============================================

	traceMiddleware := trace.NewMiddleware(logger, cfg.Debug)
	corsMiddleware := cors.NewMiddleware(logger, cfg.AllowOrigins)
	authenticator := auth.NewMiddleware(logger, jwtService, problemWriter)

	// Basic Middleware (Tracing and Recovery)
	basicMiddleware := middleware.NewSet(traceMiddleware.RecoverMiddleware)
	basicMiddleware = basicMiddleware.Append(traceMiddleware.TraceMiddleware)

	// Auth Middleware
	authMiddleware := middleware.NewSet(traceMiddleware.RecoverMiddleware)
	authMiddleware = authMiddleware.Append(traceMiddleware.TraceMiddleware)
	authMiddleware = authMiddleware.Append(authenticator.Authenticate)

	mux := http.NewServeMux()

	// Health check route
	mux.Handle("GET /api/healthz", basicMiddleware.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			logger.Error("Failed to write response", zap.Error(err))
		}
	}))

	// ============================================
	// Auth routes
	// ============================================

	mux.Handle("GET /api/auth/me", authMiddleware.HandlerFunc(authHandler.Me))
	mux.Handle("POST /api/auth/logout", authMiddleware.HandlerFunc(authHandler.Logout))

	// ============================================
	// Catalog routes
	// ============================================

	// Question Types
	// ----------------------
	mux.Handle("GET /api/question-types", basicMiddleware.HandlerFunc(catalogHandler.ListTypesHandler))
	mux.Handle("GET /api/question-types/{type}", basicMiddleware.HandlerFunc(catalogHandler.GetTypeHandler))
	mux.Handle("POST /api/question-types/{type}/validate", basicMiddleware.HandlerFunc(catalogHandler.ValidateSettingsHandler))
	mux.Handle("GET /api/question-categories", basicMiddleware.HandlerFunc(catalogHandler.ListCategoriesHandler))
	mux.Handle("GET /api/emoji-scales", basicMiddleware.HandlerFunc(catalogHandler.ListEmojiScalesHandler))
	mux.Handle("GET /api/survey-themes", basicMiddleware.HandlerFunc(catalogHandler.ListThemesHandler))

	// Templates
	// ----------------------
	mux.Handle("GET /api/templates", basicMiddleware.HandlerFunc(catalogHandler.ListTemplatesHandler))
	mux.Handle("GET /api/templates/categories", basicMiddleware.HandlerFunc(catalogHandler.ListTemplateCategoriesHandler))
	mux.Handle("GET /api/templates/{id}", basicMiddleware.HandlerFunc(catalogHandler.GetTemplateHandler))
	mux.Handle("GET /api/templates/{id}/preview", basicMiddleware.HandlerFunc(catalogHandler.PreviewTemplateHandler))

	// ============================================
	// Draft routes
	// ============================================

	// Draft Management
	// ----------------------
	mux.Handle("POST /api/drafts", authMiddleware.HandlerFunc(draftHandler.CreateHandler))
	mux.Handle("GET /api/drafts/{id}", authMiddleware.HandlerFunc(draftHandler.GetHandler))
	mux.Handle("DELETE /api/drafts/{id}", authMiddleware.HandlerFunc(draftHandler.DeleteHandler))
	mux.Handle("PATCH /api/drafts/{id}", authMiddleware.HandlerFunc(draftHandler.PatchHandler))
	mux.Handle("PATCH /api/drafts/{id}/settings", authMiddleware.HandlerFunc(draftHandler.PatchSettingsHandler))

	// Question Management
	// ----------------------
	mux.Handle("POST /api/drafts/{id}/questions", authMiddleware.HandlerFunc(draftHandler.AddQuestionHandler))
	mux.Handle("PATCH /api/drafts/{id}/questions/{questionId}", authMiddleware.HandlerFunc(draftHandler.PatchQuestionHandler))
	mux.Handle("DELETE /api/drafts/{id}/questions/{questionId}", authMiddleware.HandlerFunc(draftHandler.DeleteQuestionHandler))
	mux.Handle("POST /api/drafts/{id}/questions/{questionId}/duplicate", authMiddleware.HandlerFunc(draftHandler.DuplicateQuestionHandler))
	mux.Handle("PUT /api/drafts/{id}/questions/reorder", authMiddleware.HandlerFunc(draftHandler.ReorderQuestionsHandler))
	mux.Handle("PUT /api/drafts/{id}/questions/{questionId}/position", authMiddleware.HandlerFunc(draftHandler.MoveQuestionHandler))

	// -- Draft Operations
	mux.Handle("GET /api/drafts/{id}/validation", authMiddleware.HandlerFunc(draftHandler.ValidationHandler))
	mux.Handle("POST /api/drafts/{id}/save", authMiddleware.HandlerFunc(draftHandler.SaveHandler))
	mux.Handle("POST /api/drafts/{id}/publish", authMiddleware.HandlerFunc(draftHandler.PublishHandler))
	mux.Handle("POST /api/drafts/{id}/unpublish", authMiddleware.HandlerFunc(draftHandler.UnpublishHandler))
	mux.Handle("POST /api/drafts/{id}/close", authMiddleware.HandlerFunc(draftHandler.CloseHandler))
	mux.Handle("GET /api/drafts/{id}/export.xlsx", authMiddleware.HandlerFunc(draftHandler.ExportHandler))

	// End of API routes
	// ============================================
	// handle interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go draftManager.Sweep(ctx, sweepInterval)

	// CORS and Entry Point
	entrypoint := corsMiddleware.HandlerFunc(mux.ServeHTTP)

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: entrypoint,
	}

	go func() {
		logger.Info("Starting listening request", zap.String("host", cfg.Host), zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Fail to start server with error", zap.Error(err))
		}
	}()

	// wait for context close
	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	draftManager.Shutdown()

	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := shutdown(otelCtx); err != nil {
		logger.Error("Forced to shutdown OpenTelemetry", zap.Error(err))
	}

	logger.Info("Successfully shutdown")
}

func initLogger(cfg *config.Config, appMetadata []zap.Field) (*zap.Logger, error) {
	var err error
	var logger *zap.Logger
	if cfg.Debug {
		logger, err = logutil.ZapDevelopmentConfig().Build()
		if err != nil {
			return nil, err
		}
		logger.Info("Running in debug mode", appMetadata...)
	} else {
		logger, err = logutil.ZapProductionConfig().Build()
		if err != nil {
			return nil, err
		}

		logger = logger.With(appMetadata...)
	}
	defer func() {
		err := logger.Sync()
		if err != nil {
			zap.S().Errorw("Failed to sync logger", zap.Error(err))
		}
	}()

	return logger, nil
}

func initOpenTelemetry(appName, version, buildTime, commitHash, environment, otelCollectorUrl string) (func(context.Context) error, error) {
	ctx := context.Background()

	serviceName := semconv.ServiceNameKey.String(appName)
	serviceVersion := semconv.ServiceVersionKey.String(version)
	serviceNamespace := semconv.ServiceNamespaceKey.String("survey-builder")
	serviceCommitHash := attribute.String("service.commit_hash", commitHash)
	serviceEnvironment := semconv.DeploymentEnvironmentKey.String(environment)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			serviceName,
			serviceVersion,
			serviceNamespace,
			serviceCommitHash,
			serviceEnvironment,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if otelCollectorUrl != "" {
		conn, err := initGrpcConn(otelCollectorUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
		}

		traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}

		bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
		options = append(options, sdktrace.WithSpanProcessor(bsp))
	}

	tracerProvider := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider.Shutdown, nil
}

func initGrpcConn(target string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	return conn, nil
}

func EarlyApplicationFailed(title, action string) string {
	result := `
-----------------------------------------
Application Failed to Start
-----------------------------------------

# What's wrong?
%s

# How to fix it?
%s

`

	result = fmt.Sprintf(result, title, action)
	return result
}
