package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/copyguard-ai/copyguard/internal/eventlog"
	"github.com/copyguard-ai/copyguard/internal/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleTelemetry implements POST /api/log, the fan-in endpoint for UI
// telemetry. Log documents are forwarded to the telemetry sink; scan-result
// logs (attributes carrying an intent) are additionally mirrored into the
// bounded event log so the polling dashboard sees browser-side decisions.
// Always acks 200 — telemetry must never fail the caller.
func (d *Dependencies) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	var req TelemetryRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "Invalid JSON body"})
		return
	}

	switch req.Type {
	case "log":
		d.mirrorScanResult(req.Attributes)

		attrs := map[string]any{}
		if len(req.Attributes) > 0 {
			if err := json.Unmarshal(req.Attributes, &attrs); err != nil {
				d.Logger.Warn("telemetry attributes not an object, dropping", zap.Error(err))
				attrs = map[string]any{}
			}
		}

		level := req.Level
		if level == "" {
			level = "info"
		}
		message := req.Message
		if message == "" {
			message = "Frontend Event"
		}

		d.Emitter.EmitLog(telemetry.LogEvent{
			Source:     "security-dashboard",
			Service:    "frontend-ui",
			Message:    message,
			Status:     level,
			Timestamp:  time.Now(),
			Attributes: attrs,
		})

	case "metric":
		if req.MetricName != "" && req.Value != nil {
			d.Emitter.EmitMetric(req.MetricName, *req.Value, req.Tags)
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Telemetry Received"))
}

// mirrorScanResult appends a UI-reported scan decision to the bounded
// event log. Only documents whose attributes decode into a log entry with
// an intent qualify; anything else is plain telemetry.
func (d *Dependencies) mirrorScanResult(attributes json.RawMessage) {
	if len(attributes) == 0 {
		return
	}

	// UI log entries carry epoch-milli timestamps, so decode into a wire
	// shape first.
	var attrs struct {
		ID             string  `json:"id"`
		Timestamp      int64   `json:"timestamp"`
		Source         string  `json:"source"`
		Intent         string  `json:"intent"`
		SnippetPreview string  `json:"snippetPreview"`
		ActionTaken    string  `json:"actionTaken"`
		RiskLevel      string  `json:"riskLevel"`
		LatencyMs      float64 `json:"latencyMs"`
		TokensUsed     int     `json:"tokensUsed"`
		Reasoning      string  `json:"reasoning"`
		SafeSnippet    string  `json:"safe_snippet"`
	}
	if err := json.Unmarshal(attributes, &attrs); err != nil || attrs.Intent == "" {
		return
	}

	if attrs.ID == "" {
		attrs.ID = uuid.New().String()
	}
	ts := time.Now()
	if attrs.Timestamp > 0 {
		ts = time.UnixMilli(attrs.Timestamp)
	}

	d.Log.Append(eventlog.Entry{
		ID:             attrs.ID,
		Timestamp:      ts,
		Source:         eventlog.Source(attrs.Source),
		Intent:         attrs.Intent,
		SnippetPreview: attrs.SnippetPreview,
		ActionTaken:    attrs.ActionTaken,
		RiskLevel:      eventlog.RiskLevel(attrs.RiskLevel),
		LatencyMs:      attrs.LatencyMs,
		TokensUsed:     attrs.TokensUsed,
		Reasoning:      attrs.Reasoning,
		SafeSnippet:    attrs.SafeSnippet,
	})
}
