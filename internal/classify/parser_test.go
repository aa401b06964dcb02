package classify

import (
	"errors"
	"testing"
)

func TestParseResponse_NoiseWrappedObject(t *testing.T) {
	raw := `noise {"intent":"SAFE_BOILERPLATE","confidence":0.9,"reasoning":"ok"} trailing`

	result, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Intent != IntentSafeBoilerplate {
		t.Errorf("intent = %s, want SAFE_BOILERPLATE", result.Intent)
	}
	if result.Confidence != 0.9 {
		t.Errorf("confidence = %f, want 0.9", result.Confidence)
	}
	if result.Reasoning != "ok" {
		t.Errorf("reasoning = %q, want %q", result.Reasoning, "ok")
	}
	if result.Action != ActionAllow {
		t.Errorf("action = %s, want ALLOW", result.Action)
	}
}

func TestParseResponse_MarkdownFencedObject(t *testing.T) {
	raw := "```json\n{\"intent\":\"PROMPT_INJECTION\",\"confidence\":0.95,\"reasoning\":\"override attempt\"}\n```"

	result, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Intent != IntentPromptInjection {
		t.Errorf("intent = %s, want PROMPT_INJECTION", result.Intent)
	}
	if result.Action != ActionBlock {
		t.Errorf("action = %s, want BLOCK", result.Action)
	}
}

func TestParseResponse_NoBraces(t *testing.T) {
	_, err := ParseResponse("the model rambled with no structure at all")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("err = %v, want ErrExtractionFailed", err)
	}
}

func TestParseResponse_UnbalancedBraces(t *testing.T) {
	_, err := ParseResponse("{not valid json")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("err = %v, want ErrExtractionFailed (no closing brace)", err)
	}
}

func TestParseResponse_MalformedSpan(t *testing.T) {
	_, err := ParseResponse(`{not valid json}`)
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestParseResponse_UnknownIntent(t *testing.T) {
	_, err := ParseResponse(`{"intent":"TOTALLY_NEW_CATEGORY","confidence":0.5}`)
	if !errors.Is(err, ErrUnknownIntent) {
		t.Errorf("err = %v, want ErrUnknownIntent", err)
	}
}

func TestParseResponse_MissingIntent(t *testing.T) {
	_, err := ParseResponse(`{"confidence":0.5,"reasoning":"no intent field"}`)
	if !errors.Is(err, ErrUnknownIntent) {
		t.Errorf("err = %v, want ErrUnknownIntent", err)
	}
}

func TestParseResponse_ConfidenceDefaults(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"absent", `{"intent":"LEARN_SNIPPET","reasoning":"r"}`, 0.9},
		{"above range", `{"intent":"LEARN_SNIPPET","confidence":1.5,"reasoning":"r"}`, 0.9},
		{"below range", `{"intent":"LEARN_SNIPPET","confidence":-0.2,"reasoning":"r"}`, 0.9},
		{"zero is valid", `{"intent":"LEARN_SNIPPET","confidence":0,"reasoning":"r"}`, 0},
		{"one is valid", `{"intent":"LEARN_SNIPPET","confidence":1,"reasoning":"r"}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseResponse(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Confidence != tt.want {
				t.Errorf("confidence = %f, want %f", result.Confidence, tt.want)
			}
		})
	}
}

func TestParseResponse_ReasoningDefaults(t *testing.T) {
	result, err := ParseResponse(`{"intent":"SAFE_BOILERPLATE","confidence":0.8}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reasoning != defaultReasoning {
		t.Errorf("reasoning = %q, want default placeholder", result.Reasoning)
	}
}

func TestParseResponse_SanitizedOnlyForDataLeak(t *testing.T) {
	leak, err := ParseResponse(`{"intent":"DATA_LEAK","confidence":0.99,"reasoning":"secret","safe_snippet":"key = process.env.KEY"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if leak.Action != ActionRedact {
		t.Errorf("action = %s, want REDACT", leak.Action)
	}
	if leak.SanitizedCode == "" {
		t.Error("DATA_LEAK with safe_snippet should carry sanitized code")
	}

	// Model volunteering a safe_snippet on a safe verdict must be ignored.
	safe, err := ParseResponse(`{"intent":"SAFE_BOILERPLATE","confidence":0.9,"reasoning":"fine","safe_snippet":"ignored"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if safe.SanitizedCode != "" {
		t.Errorf("sanitized code = %q, want empty for SAFE_BOILERPLATE", safe.SanitizedCode)
	}
}

func TestParseResponse_GreedyOuterSpan(t *testing.T) {
	// Two objects: the heuristic takes first '{' to last '}', which fails
	// to decode. Accepted behavior for the documented approximation.
	raw := `{"intent":"SAFE_BOILERPLATE"} {"intent":"DATA_LEAK"}`
	_, err := ParseResponse(raw)
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("err = %v, want ErrMalformedPayload for over-captured span", err)
	}
}
