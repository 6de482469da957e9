package llm

import (
	"context"
	"errors"

	"ai-trip-planner/internal/shared"

	"github.com/google/generative-ai-go/genai"
)

// ErrContentBlocked is returned when the backend refuses a request due to
// its safety policy. Callers surface it differently from generic failures.
var ErrContentBlocked = errors.New("content blocked by safety policy")

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating JSON text from a prompt.
// The schema describes the shape the response must conform to.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}
