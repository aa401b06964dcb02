package api

import (
	"encoding/json"
	"time"
)

// --- POST /api/analyze ---

// AnalyzeRequest is the JSON body for POST /api/analyze.
type AnalyzeRequest struct {
	Code   string `json:"code"`
	Source string `json:"source,omitempty"` // BROWSER (default) or IDE
}

// AnalyzeResponse is the verdict shape returned to callers.
type AnalyzeResponse struct {
	Intent      string    `json:"intent"`
	Confidence  float64   `json:"confidence"`
	Reasoning   string    `json:"reasoning"`
	Action      string    `json:"action"`
	SafeSnippet string    `json:"safe_snippet,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// --- POST /api/generate ---

// GenerateRequest is the JSON body for POST /api/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse carries the generated code.
type GenerateResponse struct {
	Code string `json:"code"`
}

// --- POST /api/log ---

// TelemetryRequest is the fan-in document posted by the UI surfaces.
// type=log documents whose attributes carry an intent are also mirrored
// into the bounded event log for the polling dashboard.
type TelemetryRequest struct {
	Type       string          `json:"type"` // "log" or "metric"
	Message    string          `json:"message,omitempty"`
	Level      string          `json:"level,omitempty"`
	MetricName string          `json:"metricName,omitempty"`
	Value      *float64        `json:"value,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
}

// ErrorResp is a standard error response body.
type ErrorResp struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
