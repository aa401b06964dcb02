package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/copyguard-ai/copyguard/internal/api"
	"github.com/copyguard-ai/copyguard/internal/classify"
	"github.com/copyguard-ai/copyguard/internal/eventlog"
	"github.com/copyguard-ai/copyguard/internal/gemini"
	"github.com/copyguard-ai/copyguard/internal/storage"
	"github.com/copyguard-ai/copyguard/internal/telemetry"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	// Logger
	logger := mustBuildLogger(envOrDefault("GUARD_LOG_LEVEL", "info"))
	defer logger.Sync() //nolint:errcheck // best-effort flush

	// Config from env
	httpPort := envOrDefault("PORT", "3000")
	geminiKey := os.Getenv("GEMINI_API_KEY")
	geminiModel := envOrDefault("GEMINI_MODEL", gemini.DefaultModel)
	mockAI := os.Getenv("MOCK_AI") == "true"
	ddAPIKey := os.Getenv("DD_API_KEY")
	ddSite := envOrDefault("DD_SITE", "datadoghq.com")
	appEnv := envOrDefault("APP_ENV", "hackathon")
	clickhouseDSN := os.Getenv("CLICKHOUSE_DSN")
	maxAttempts := envOrDefaultInt("GUARD_MODEL_MAX_ATTEMPTS", gemini.DefaultMaxAttempts)

	logger.Info("starting copyguard server",
		zap.String("http_port", httpPort),
		zap.String("model", geminiModel),
		zap.Bool("mock_ai", mockAI),
		zap.Int("model_max_attempts", maxAttempts),
		zap.Bool("gemini_key_present", geminiKey != ""),
		zap.Bool("datadog_key_present", ddAPIKey != ""),
	)

	// Model client — mock mode bypasses the external model entirely
	var modelClient gemini.Client
	if mockAI {
		modelClient = gemini.NewMockClient()
		logger.Info("mock model client enabled")
	} else {
		sdkClient, err := gemini.NewSDKClient(context.Background(), geminiKey, logger)
		if err != nil {
			logger.Fatal("failed to create gemini client", zap.Error(err))
		}
		modelClient = sdkClient
	}
	invoker := gemini.NewInvoker(modelClient, logger)

	// Decision event sink — ClickHouse or LogWriter fallback
	var writer storage.EventWriter
	if clickhouseDSN != "" {
		chWriter, err := storage.NewClickHouseWriter(clickhouseDSN, logger)
		if err != nil {
			logger.Warn("clickhouse connection failed, falling back to log writer",
				zap.Error(err),
			)
			writer = storage.NewLogWriter(logger)
		} else {
			writer = chWriter
			logger.Info("clickhouse writer connected")
		}
	} else {
		writer = storage.NewLogWriter(logger)
		logger.Info("no CLICKHOUSE_DSN set, using log writer")
	}
	defer writer.Close()

	// Telemetry sink — Datadog HTTP intake, or a no-op without a key
	var emitter telemetry.Emitter
	if ddAPIKey != "" {
		emitter = telemetry.NewDatadogEmitter(telemetry.DatadogConfig{
			APIKey: ddAPIKey,
			Site:   ddSite,
			App:    "ai-copy-guard",
			Env:    appEnv,
		}, logger)
		logger.Info("datadog emitter enabled", zap.String("site", ddSite))
	} else {
		emitter = telemetry.NopEmitter{}
		logger.Info("no DD_API_KEY set, telemetry disabled")
	}
	defer emitter.Close()

	// Bounded event log — one per process, constructed here and injected
	recentLog := eventlog.New(eventlog.DefaultCapacity)

	svc := classify.NewService(invoker, recentLog, writer, emitter, logger, classify.Config{
		Model:       geminiModel,
		MaxAttempts: maxAttempts,
	})

	deps := &api.Dependencies{
		Classifier: svc,
		Log:        recentLog,
		Emitter:    emitter,
		Logger:     logger,
	}
	httpServer := &http.Server{
		Addr:        ":" + httpPort,
		Handler:     api.NewRouter(deps),
		ReadTimeout: 10 * time.Second,
		// Classify can spend up to maxAttempts * per-attempt deadline plus
		// backoff before failing open, so give handlers generous room.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Block until shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	logger.Info("copyguard server stopped")
}

func mustBuildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	return logger
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
