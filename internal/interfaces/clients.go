package interfaces

import (
	"context"

	"google.golang.org/genai"
)

// ChatClient is the chat-completion endpoint contract. A single call sends
// the system prompt, the full message history, and the tool declarations
// with automatic tool choice, and returns the model's next content (which
// may contain function-call parts).
type ChatClient interface {
	Complete(ctx context.Context, system string, history []*genai.Content, tools []*genai.FunctionDeclaration) (*genai.Content, error)
}
