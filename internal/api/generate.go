package api

import (
	"errors"
	"net/http"

	"github.com/copyguard-ai/copyguard/internal/classify"
	"go.uber.org/zap"
)

// handleGenerate implements POST /api/generate (the IDE simulator flow).
// Model failures never surface here: the service substitutes a fixed
// placeholder, so only a missing prompt produces an error status.
func (d *Dependencies) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "Invalid JSON body"})
		return
	}

	code, err := d.Classifier.Generate(r.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, classify.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, ErrorResp{Error: "Prompt required"})
			return
		}
		d.Logger.Error("generate failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Error: "Failed to generate code"})
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Code: code})
}
