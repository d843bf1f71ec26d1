package anthropic

import "encoding/json"

// Role of a message participant.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// StopReason is the reason the model stopped generating.
type StopReason string

const (
	StopReasonEndTurn      StopReason = "end_turn"
	StopReasonMaxTokens    StopReason = "max_tokens"
	StopReasonStopSequence StopReason = "stop_sequence"
	StopReasonToolUse      StopReason = "tool_use"
	StopReasonPauseTurn    StopReason = "pause_turn"
	StopReasonRefusal      StopReason = "refusal"
)

// Usage reports token consumption for a request.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ContentBlock is a block of response content. The Type field determines
// which other fields are populated ("text", "tool_use", "thinking").
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	// For tool_use blocks
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
	// For thinking blocks
	Thinking  string `json:"thinking,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// Message is a response from the Messages API.
type Message struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         Role           `json:"role"`
	Content      []ContentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   StopReason     `json:"stop_reason,omitempty"`
	StopSequence *string        `json:"stop_sequence,omitempty"`
	Usage        Usage          `json:"usage"`
}

// Text returns the concatenated text of all text content blocks.
func (m *Message) Text() string {
	var out string
	for _, block := range m.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}

// ToolUses returns all tool_use content blocks.
func (m *Message) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, block := range m.Content {
		if block.Type == "tool_use" {
			uses = append(uses, block)
		}
	}
	return uses
}

// HasToolUse reports whether the message contains a tool_use block.
func (m *Message) HasToolUse() bool {
	for _, block := range m.Content {
		if block.Type == "tool_use" {
			return true
		}
	}
	return false
}

// ContentBlockParam is a block of request content.
type ContentBlockParam struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	// For tool_result blocks
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	// For tool_use blocks echoed back in multi-turn tool conversations
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

// TextBlock creates a text content block.
func TextBlock(text string) ContentBlockParam {
	return ContentBlockParam{Type: "text", Text: text}
}

// ToolResultBlock creates a tool_result content block for the given
// tool_use ID.
func ToolResultBlock(toolUseID, content string) ContentBlockParam {
	return ContentBlockParam{Type: "tool_result", ToolUseID: toolUseID, Content: content}
}

// MessageParam is a message in a request conversation.
type MessageParam struct {
	Role    Role                `json:"role"`
	Content []ContentBlockParam `json:"content"`
}

// UserMessage creates a user message with text content.
func UserMessage(text string) MessageParam {
	return MessageParam{Role: RoleUser, Content: []ContentBlockParam{TextBlock(text)}}
}

// AssistantMessage creates an assistant message with text content.
func AssistantMessage(text string) MessageParam {
	return MessageParam{Role: RoleAssistant, Content: []ContentBlockParam{TextBlock(text)}}
}

// Tool describes a tool the model may call.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// MessageNewParams are the parameters for creating a message.
type MessageNewParams struct {
	Model         string         `json:"model"`
	Messages      []MessageParam `json:"messages"`
	MaxTokens     int            `json:"max_tokens"`
	System        string         `json:"system,omitempty"`
	Temperature   *float64       `json:"temperature,omitempty"`
	TopP          *float64       `json:"top_p,omitempty"`
	StopSequences []string       `json:"stop_sequences,omitempty"`
	Tools         []Tool         `json:"tools,omitempty"`
	ToolChoice    any            `json:"tool_choice,omitempty"`
	Stream        bool           `json:"stream,omitempty"`
}
