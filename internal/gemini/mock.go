package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// sensitiveMarkers are the substrings the mock treats as leaked secrets.
// "AKIA" covers AWS access-key-style identifiers.
var sensitiveMarkers = []string{"SECRET", "KEY", "password", "AKIA"}

// MockClient is a deterministic stand-in for the Gemini API, enabled with
// MOCK_AI=true. Classification requests (JSONResponse=true) are answered
// from the snippet's content: a sensitive-looking marker yields a
// DATA_LEAK verdict with a redacted snippet, anything else is
// SAFE_BOILERPLATE. Generation requests echo a canned program.
type MockClient struct{}

// NewMockClient creates a MockClient.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) GenerateContent(_ context.Context, req *Request) (string, error) {
	var snippet string
	if n := len(req.Messages); n > 0 {
		snippet = req.Messages[n-1].Text
	}

	if req.JSONResponse {
		return m.mockVerdict(snippet)
	}
	return fmt.Sprintf("// MOCK GENERATED CODE\n// You asked for: %s\nconsole.log(\"Hello from Mock Mode!\");", snippet), nil
}

func (m *MockClient) mockVerdict(snippet string) (string, error) {
	type verdict struct {
		Intent      string  `json:"intent"`
		Confidence  float64 `json:"confidence"`
		Reasoning   string  `json:"reasoning"`
		SafeSnippet string  `json:"safe_snippet,omitempty"`
	}

	v := verdict{
		Intent:     "SAFE_BOILERPLATE",
		Confidence: 0.9,
		Reasoning:  "MOCK MODE: Code appears safe.",
	}
	if marker, found := findMarker(snippet); found {
		v = verdict{
			Intent:      "DATA_LEAK",
			Confidence:  0.99,
			Reasoning:   fmt.Sprintf("MOCK MODE: Detected sensitive keyword (%s). Blocked by policy.", marker),
			SafeSnippet: redact(snippet),
		}
	}

	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal mock verdict: %w", err)
	}
	return string(out), nil
}

// findMarker returns the first sensitive marker present in the snippet.
func findMarker(snippet string) (string, bool) {
	for _, marker := range sensitiveMarkers {
		if strings.Contains(snippet, marker) {
			return marker, true
		}
	}
	return "", false
}

// redact replaces every sensitive marker occurrence with REDACTED.
func redact(snippet string) string {
	out := snippet
	for _, marker := range sensitiveMarkers {
		out = strings.ReplaceAll(out, marker, "REDACTED")
	}
	return out
}
