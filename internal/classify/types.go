package classify

import "time"

// Intent classifies what a scanned code snippet represents.
type Intent int

const (
	IntentUnspecified Intent = iota
	IntentDataLeak           // DATA_LEAK
	IntentPromptInjection    // PROMPT_INJECTION
	IntentLearnSnippet       // LEARN_SNIPPET
	IntentSafeBoilerplate    // SAFE_BOILERPLATE
)

// String returns the wire name used in model payloads and API responses.
func (i Intent) String() string {
	switch i {
	case IntentDataLeak:
		return "DATA_LEAK"
	case IntentPromptInjection:
		return "PROMPT_INJECTION"
	case IntentLearnSnippet:
		return "LEARN_SNIPPET"
	case IntentSafeBoilerplate:
		return "SAFE_BOILERPLATE"
	default:
		return "UNSPECIFIED"
	}
}

// intentMap maps wire strings from model payloads to Intent values.
var intentMap = map[string]Intent{
	"DATA_LEAK":        IntentDataLeak,
	"PROMPT_INJECTION": IntentPromptInjection,
	"LEARN_SNIPPET":    IntentLearnSnippet,
	"SAFE_BOILERPLATE": IntentSafeBoilerplate,
}

// ParseIntent maps a wire string to an Intent. The intent set is closed:
// anything the model emits outside the four known values is rejected here,
// never passed through.
func ParseIntent(s string) (Intent, bool) {
	intent, ok := intentMap[s]
	return intent, ok
}

// Action is the enforcement decision derived from an Intent.
type Action int

const (
	ActionUnspecified Action = iota
	ActionBlock
	ActionRedact
	ActionEducate
	ActionAllow
)

// String returns the wire name of the action.
func (a Action) String() string {
	switch a {
	case ActionBlock:
		return "BLOCK"
	case ActionRedact:
		return "REDACT"
	case ActionEducate:
		return "EDUCATE"
	case ActionAllow:
		return "ALLOW"
	default:
		return "UNSPECIFIED"
	}
}

// Result is the outcome of one classification call. Constructed once,
// never mutated afterwards. Action is always MapIntentToAction(Intent),
// and SanitizedCode is empty unless Intent is IntentDataLeak.
type Result struct {
	Intent          Intent
	Confidence      float64 // 0.0 – 1.0
	Reasoning       string
	Action          Action
	SanitizedCode   string // redacted variant, DATA_LEAK only
	OriginalContent string
	CreatedAt       time.Time
}
