package ai

import "encoding/json"

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or registered alias
	Messages         []Message         `json:"messages"`                    // Contains all messages in the conversation except system prompt
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system prompt
	Tools            []ToolDescription `json:"tools,omitempty"`             // Contains tool definitions if any
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional generation configuration
}

// ToolDescription declares a function tool the model may call. Parameters
// carry the raw JSON schema; this library does not interpret it.
type ToolDescription struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	// Tool calling fields
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // For role=assistant requesting tools
	ToolCallID string     `json:"tool_call_id,omitempty"` // For role=tool, links to the tool call being responded to
	Name       string     `json:"name,omitempty"`         // For role=tool, name of the tool that generated this response
}

type GenerationConfig struct {
	MaxTokens   int     `json:"max_tokens,omitempty"`  // Optional max tokens for the response
	Temperature float32 `json:"temperature,omitempty"` // Sampling temperature [0..2]. Higher => more random; lower => more deterministic.
	TopP        float32 `json:"top_p,omitempty"`       // Nucleus (top-p) sampling [0..1]. Alternative to temperature.
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse is the merged final result of one completion. For a streamed
// completion it is assembled once, when the stream ends, from all observed
// deltas. Optional fields are omitted entirely when the server never supplied
// them, never serialized as null.
type ChatResponse struct {
	Id           string      `json:"id,omitempty"`
	Model        string      `json:"model,omitempty"`
	Object       string      `json:"object,omitempty"`
	Created      int64       `json:"created,omitempty"`
	Role         MessageRole `json:"role,omitempty"`
	Content      string      `json:"content"`
	Reasoning    string      `json:"reasoning,omitempty"`
	FinishReason string      `json:"finish_reason,omitempty"`
	Usage        *Usage      `json:"usage,omitempty"`

	// ToolCalls carry the wire-form argument strings exactly as accumulated.
	// ResolvedToolCalls carry the same calls with arguments parsed once, at
	// finalization; a call whose arguments could not be parsed records the
	// diagnostic instead of being dropped.
	ToolCalls         []ToolCall         `json:"tool_calls,omitempty"`
	ResolvedToolCalls []ResolvedToolCall `json:"resolved_tool_calls,omitempty"`

	// Energy holds the last metering payload the server reported before
	// termination, verbatim. The library does not interpret its fields.
	// Absent when no energy telemetry was observed.
	Energy json.RawMessage `json:"energy,omitempty"`
}

// ToolCall represents a function/tool call request from the LLM
type ToolCall struct {
	ID       string           `json:"id,omitempty"` // Unique identifier for this tool call
	Type     string           `json:"type"`         // "function"
	Function ToolCallFunction `json:"function"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string
}

// ResolvedToolCall is a tool call with its argument string parsed into an
// object. Error is set when the arguments were not valid JSON even after
// repair; Arguments is nil in that case.
type ResolvedToolCall struct {
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Error     string         `json:"error,omitempty"`
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
	RoleTool      MessageRole = "tool"      // Tool/function output
)
