package classify

import "fmt"

// MapIntentToAction returns the enforcement action for an intent.
//
// The mapping is fixed and total over the closed intent set:
//
//	DATA_LEAK        → REDACT
//	PROMPT_INJECTION → BLOCK
//	LEARN_SNIPPET    → EDUCATE
//	SAFE_BOILERPLATE → ALLOW
//
// Nothing besides the intent influences the action. Calling this with a
// value outside the closed set is a caller bug (unreachable once parser
// validation ran) and panics rather than defaulting silently.
func MapIntentToAction(intent Intent) Action {
	switch intent {
	case IntentDataLeak:
		return ActionRedact
	case IntentPromptInjection:
		return ActionBlock
	case IntentLearnSnippet:
		return ActionEducate
	case IntentSafeBoilerplate:
		return ActionAllow
	default:
		panic(fmt.Sprintf("classify: no policy action for intent %d", intent))
	}
}
