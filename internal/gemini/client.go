package gemini

import "context"

// DefaultModel is used when GEMINI_MODEL is not configured.
const DefaultModel = "gemini-2.5-flash"

// Message is one role-tagged part of a model request.
type Message struct {
	Role string // "user" or "model"
	Text string
}

// Request describes a single generate-content call.
type Request struct {
	Model             string
	Messages          []Message
	SystemInstruction string
	JSONResponse      bool // hint the model to respond with structured JSON
}

// Client is the outbound generative-model collaborator. Implementations
// return the raw response text; interpreting it is the caller's problem.
type Client interface {
	GenerateContent(ctx context.Context, req *Request) (string, error)
}
