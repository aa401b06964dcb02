package storage

import "time"

// EventWriter is the sink for classification decision events.
// Write() must NEVER block the caller.
type EventWriter interface {
	Write(event *ScanEvent)
	Close()
}

// ScanEvent represents one classify() decision to be shipped for
// analytics. It mirrors what the dashboard needs to chart: verdicts,
// latency and failure signals. Best-effort only — dropping events is
// acceptable, blocking a request is not.
type ScanEvent struct {
	RequestID      string
	Timestamp      time.Time
	Source         string // BROWSER / IDE / caller tag
	Intent         string
	Action         string
	RiskLevel      string
	Confidence     float64
	Reasoning      string
	SnippetPreview string // first 500 chars
	SnippetHash    string // SHA256 of the full snippet
	SnippetSize    uint32
	Sanitized      bool // a redacted variant was produced
	LatencyMs      float64
	TokensUsed     uint32
	Status         string // "success" or "failure"
	ErrorDetail    string
}

// SnippetPreviewLength is the max chars stored in snippet_preview.
const SnippetPreviewLength = 500

// TruncateSnippet returns the first N runes of a snippet for preview
// storage. It never splits a multi-byte UTF-8 character.
func TruncateSnippet(snippet string, maxLen int) string {
	runes := []rune(snippet)
	if len(runes) <= maxLen {
		return snippet
	}
	return string(runes[:maxLen])
}
