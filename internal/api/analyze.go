package api

import (
	"errors"
	"net/http"

	"github.com/copyguard-ai/copyguard/internal/classify"
	"github.com/copyguard-ai/copyguard/internal/eventlog"
	"go.uber.org/zap"
)

// handleAnalyze implements POST /api/analyze.
//
// Input validation failures return 400. Everything else returns 200: the
// service degrades to a safe ALLOW default internally, so the 500 path is
// reserved for genuinely unexpected handler failures.
func (d *Dependencies) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "Invalid JSON body"})
		return
	}

	result, err := d.Classifier.Classify(r.Context(), req.Code, eventlog.Source(req.Source))
	if err != nil {
		if errors.Is(err, classify.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "Code snippet required"})
			return
		}
		d.Logger.Error("analyze failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{
			Error:   "Failed to process request",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Intent:      result.Intent.String(),
		Confidence:  result.Confidence,
		Reasoning:   result.Reasoning,
		Action:      result.Action.String(),
		SafeSnippet: result.SanitizedCode,
		Timestamp:   result.CreatedAt,
	})
}
