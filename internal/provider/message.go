package provider

import "github.com/google/uuid"

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a single tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Message is one entry of a conversation. Order is causal order.
type Message struct {
	Role    Role
	Content string

	// ToolCallID and Name are set on RoleTool messages.
	ToolCallID string
	Name       string

	// ToolCalls is set on RoleAssistant messages that requested tools.
	ToolCalls []ToolCall
}

// Response is what a backend returns for one chat call.
// Any non-empty ToolCalls means the response is not a final answer,
// whatever Content holds.
type Response struct {
	Content   string
	ToolCalls []ToolCall
	Raw       any
}

// HasToolCalls reports whether the model requested at least one tool.
func (r *Response) HasToolCalls() bool {
	return r != nil && len(r.ToolCalls) > 0
}

// AssistantMessage converts the response into the assistant turn that
// precedes its tool results in the conversation.
func (r *Response) AssistantMessage() Message {
	return Message{
		Role:      RoleAssistant,
		Content:   r.Content,
		ToolCalls: r.ToolCalls,
	}
}

// NewToolCallID returns an identifier for backends that omit one.
func NewToolCallID() string {
	return "call_" + uuid.NewString()
}
