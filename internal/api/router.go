package api

import (
	"context"
	"net/http"

	"github.com/copyguard-ai/copyguard/internal/classify"
	"github.com/copyguard-ai/copyguard/internal/eventlog"
	"github.com/copyguard-ai/copyguard/internal/telemetry"
	"go.uber.org/zap"
)

// Classifier is the slice of the classification service the HTTP layer
// needs. Satisfied by *classify.ClassifierService.
type Classifier interface {
	Classify(ctx context.Context, code string, source eventlog.Source) (*classify.Result, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// Dependencies holds shared state injected into all HTTP handlers.
type Dependencies struct {
	Classifier Classifier
	Log        *eventlog.Log
	Emitter    telemetry.Emitter
	Logger     *zap.Logger
}

// NewRouter builds the HTTP mux with all routes wired up.
func NewRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	// Classification proxy
	mux.HandleFunc("POST /api/analyze", deps.handleAnalyze)
	mux.HandleFunc("POST /api/generate", deps.handleGenerate)

	// Dashboard polling read of the bounded event log
	mux.HandleFunc("GET /api/logs", deps.handleListLogs)

	// Fan-in from UI telemetry
	mux.HandleFunc("POST /api/log", deps.handleTelemetry)

	// Health check
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return corsMiddleware(requestLogging(mux, deps.Logger))
}
