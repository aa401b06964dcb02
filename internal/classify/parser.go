package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Parse failures. All are terminal for the attempt that produced the raw
// text — the invoker never retries a payload-shape error.
var (
	// ErrExtractionFailed means the raw text contained no {...} span at all.
	ErrExtractionFailed = errors.New("model response did not contain a JSON object")

	// ErrMalformedPayload means the extracted span did not decode as JSON.
	ErrMalformedPayload = errors.New("extracted span is not valid JSON")

	// ErrUnknownIntent means the payload decoded but carried an intent
	// outside the closed four-value set.
	ErrUnknownIntent = errors.New("payload intent is not a known value")
)

// defaultConfidence is assumed when the model omits confidence or reports
// a value outside [0, 1].
const defaultConfidence = 0.9

// defaultReasoning is substituted when the model omits its reasoning.
const defaultReasoning = "AI analysis complete"

// resultPayload is the wire shape the model is instructed to return.
type resultPayload struct {
	Intent      string   `json:"intent"`
	Confidence  *float64 `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	SafeSnippet string   `json:"safe_snippet"`
}

// ParseResponse extracts and validates the structured verdict embedded in
// free-form model text. The model is asked for JSON only, but in practice
// responses arrive wrapped in prose or markdown fences, so the candidate
// span is taken between the first '{' and the last '}'.
//
// The span scan is a heuristic, not a parser: it is not nested-aware, and
// if the model emits multiple objects (or stray braces in prose) the
// outermost first/last-brace span is used and may over-capture.
func ParseResponse(raw string) (*Result, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: %s", ErrExtractionFailed, snippetForError(raw))
	}

	span := raw[start : end+1]

	var payload resultPayload
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	intent, ok := ParseIntent(payload.Intent)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, payload.Intent)
	}

	confidence := defaultConfidence
	if payload.Confidence != nil && *payload.Confidence >= 0 && *payload.Confidence <= 1 {
		confidence = *payload.Confidence
	}

	reasoning := payload.Reasoning
	if reasoning == "" {
		reasoning = defaultReasoning
	}

	result := &Result{
		Intent:     intent,
		Confidence: confidence,
		Reasoning:  reasoning,
		Action:     MapIntentToAction(intent),
	}
	if intent == IntentDataLeak {
		result.SanitizedCode = payload.SafeSnippet
	}
	return result, nil
}

// snippetForError truncates raw text for error messages so a rambling model
// response does not flood the log.
func snippetForError(raw string) string {
	const max = 200
	runes := []rune(raw)
	if len(runes) <= max {
		return raw
	}
	return string(runes[:max]) + "..."
}
