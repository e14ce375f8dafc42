package models

// Conversation message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCallRecord captures one function invocation requested by the model.
// Transient; the chat response carries the ordered list as an audit trail.
type ToolCallRecord struct {
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ConversationMessage is one entry in a session's message history. Messages
// are append-only: none is mutated after creation.
//
// For RoleTool messages, Content holds the JSON-serialized tool result and
// ToolCallID/ToolName tag the call it answers. For RoleAssistant messages
// that requested tools, ToolCalls lists the requests in model order.
type ConversationMessage struct {
	Role       string           `json:"role"`
	Content    string           `json:"content,omitempty"`
	ToolCalls  []ToolCallRecord `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
	ToolName   string           `json:"tool_name,omitempty"`
}

// ChatResult is the outcome of a single chat turn.
type ChatResult struct {
	Response  string                `json:"response"`
	History   []ConversationMessage `json:"history"`
	ToolCalls []ToolCallRecord      `json:"function_calls"`
}
