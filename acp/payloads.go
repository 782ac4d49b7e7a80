package acp

import "encoding/json"

type (
	// Implementation names a client or agent build, sent during initialize.
	Implementation struct {
		Name    string `json:"name"`
		Version string `json:"version,omitempty"`
	}

	// FileSystemCapability advertises which filesystem methods the client serves.
	FileSystemCapability struct {
		ReadTextFile  bool `json:"readTextFile,omitempty"`
		WriteTextFile bool `json:"writeTextFile,omitempty"`
	}

	// ClientCapabilities advertises the client-side tool surface.
	ClientCapabilities struct {
		Fs       FileSystemCapability `json:"fs"`
		Terminal bool                 `json:"terminal,omitempty"`
	}

	// AgentCapabilities advertises optional agent features. Prompt
	// capabilities are kept raw: their shape evolves with the protocol and the
	// inspector never interprets them.
	AgentCapabilities struct {
		LoadSession        bool            `json:"loadSession,omitempty"`
		PromptCapabilities json.RawMessage `json:"promptCapabilities,omitempty"`
	}

	// AuthMethod describes one authentication method offered by the agent.
	AuthMethod struct {
		ID          string `json:"id"`
		Name        string `json:"name,omitempty"`
		Description string `json:"description,omitempty"`
	}

	// EnvVariable is one environment entry passed to an MCP server.
	EnvVariable struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}

	// McpServer configures an MCP server the agent should connect to for a
	// session.
	McpServer struct {
		Name    string        `json:"name"`
		Command string        `json:"command,omitempty"`
		Args    []string      `json:"args,omitempty"`
		Env     []EnvVariable `json:"env,omitempty"`
	}

	// ContentBlock is one unit of prompt or update content. Type selects which
	// fields are meaningful ("text", "image", "resource_link", ...).
	ContentBlock struct {
		Type     string `json:"type"`
		Text     string `json:"text,omitempty"`
		Data     string `json:"data,omitempty"`
		MimeType string `json:"mimeType,omitempty"`
		URI      string `json:"uri,omitempty"`
	}

	// Mode is one agent operating mode advertised to the client.
	Mode struct {
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
	}

	// ModeState reports the agent's current mode and the modes available to
	// switch to, as carried by session/new and session/load results.
	ModeState struct {
		CurrentModeID  string `json:"currentModeId"`
		AvailableModes []Mode `json:"availableModes"`
	}

	// SessionUpdate is the payload of a session/update notification. Kind
	// selects the update variant; chunk content and mode updates are modeled,
	// every other variant is preserved raw.
	SessionUpdate struct {
		Kind          string          `json:"sessionUpdate"`
		Content       *ContentBlock   `json:"content,omitempty"`
		CurrentModeID string          `json:"currentModeId,omitempty"`
		Raw           json.RawMessage `json:"-"`
	}

	// ToolCallRef identifies a tool call inside a permission request.
	ToolCallRef struct {
		ToolCallID string `json:"toolCallId"`
		Title      string `json:"title,omitempty"`
		Kind       string `json:"kind,omitempty"`
		Status     string `json:"status,omitempty"`
	}

	// PermissionOption is one choice offered to the user by a permission
	// request.
	PermissionOption struct {
		OptionID string `json:"optionId"`
		Name     string `json:"name,omitempty"`
		Kind     string `json:"kind,omitempty"`
	}

	// PermissionOutcome is the user's answer to a permission request.
	PermissionOutcome struct {
		Outcome  string `json:"outcome"`
		OptionID string `json:"optionId,omitempty"`
	}

	// TerminalExitStatus reports how a terminal command ended.
	TerminalExitStatus struct {
		ExitCode *int    `json:"exitCode,omitempty"`
		Signal   *string `json:"signal,omitempty"`
	}

	// RPCError is a JSON-RPC error object attached to error responses.
	RPCError struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data,omitempty"`
	}
)

// Session/update kinds the model parses into fields. Unlisted kinds round-trip
// through SessionUpdate.Raw.
const (
	UpdateAgentMessageChunk = "agent_message_chunk"
	UpdateCurrentMode       = "current_mode_update"
)

// TextBlock builds a plain text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// AgentMessageChunk builds a session update carrying one chunk of assistant
// output.
func AgentMessageChunk(content ContentBlock) SessionUpdate {
	return SessionUpdate{Kind: UpdateAgentMessageChunk, Content: &content}
}

// CurrentModeUpdate builds a session update announcing a mode switch.
func CurrentModeUpdate(modeID string) SessionUpdate {
	return SessionUpdate{Kind: UpdateCurrentMode, CurrentModeID: modeID}
}
