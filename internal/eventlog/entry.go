package eventlog

import "time"

// Source tags which surface submitted the snippet.
type Source string

const (
	SourceBrowser Source = "BROWSER"
	SourceIDE     Source = "IDE"
)

// RiskLevel grades an entry for the dashboard.
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskLow      RiskLevel = "LOW"
	RiskInfo     RiskLevel = "INFO"
)

// PreviewLength is the max rune count stored in SnippetPreview.
const PreviewLength = 50

// Entry records one classification decision. Entries never mutate after
// append. JSON field names match the dashboard's polling contract.
type Entry struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Source         Source    `json:"source"`
	Intent         string    `json:"intent"`
	SnippetPreview string    `json:"snippetPreview"`
	ActionTaken    string    `json:"actionTaken"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	LatencyMs      float64   `json:"latencyMs"`
	TokensUsed     int       `json:"tokensUsed"`
	Reasoning      string    `json:"reasoning,omitempty"`
	SafeSnippet    string    `json:"safe_snippet,omitempty"`
}

// TruncatePreview returns the first PreviewLength runes of a snippet.
// It never splits a multi-byte UTF-8 character.
func TruncatePreview(snippet string) string {
	runes := []rune(snippet)
	if len(runes) <= PreviewLength {
		return snippet
	}
	return string(runes[:PreviewLength])
}

// EstimateTokens approximates token usage from snippet length. Same
// rough chars/4 heuristic the product has always displayed.
func EstimateTokens(snippet string) int {
	return len(snippet) / 4
}
