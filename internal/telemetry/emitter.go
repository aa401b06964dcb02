package telemetry

import "time"

// LogEvent is a structured log document bound for the telemetry backend.
type LogEvent struct {
	Source     string         // origin tag, e.g. "ai-copy-guard"
	Service    string         // emitting service, e.g. "backend-proxy"
	Message    string
	Status     string         // "info", "warn" or "error"
	Timestamp  time.Time
	Attributes map[string]any // free-form context fields
}

// Emitter fans structured logs and metrics out to an observability
// backend. Both calls are fire-and-forget: they must never block the
// caller's response path, and submission failures are logged locally and
// otherwise swallowed — never retried, never surfaced.
type Emitter interface {
	EmitLog(event LogEvent)
	EmitMetric(name string, value float64, tags []string)
	Close()
}

// NopEmitter discards everything. Used when no backend is configured.
type NopEmitter struct{}

func (NopEmitter) EmitLog(LogEvent)                     {}
func (NopEmitter) EmitMetric(string, float64, []string) {}
func (NopEmitter) Close()                               {}
