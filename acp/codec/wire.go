package codec

import (
	"encoding/json"

	"github.com/venikman/acp-sentinel/acp"
)

// envelope is the JSON-RPC 2.0 frame shape. Requests carry method (+id unless
// they are notifications); responses carry id and exactly one of result/error.
type envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *acp.RPCError   `json:"error,omitempty"`
}

const jsonrpcVersion = "2.0"

// Wire shapes for the modeled methods. Param and result objects follow the
// protocol schema; session ids live in params, never in results (except
// session/new, whose result is the one place a session id is born).
type (
	initializeParams struct {
		ProtocolVersion    int                    `json:"protocolVersion"`
		ClientCapabilities acp.ClientCapabilities `json:"clientCapabilities"`
		ClientInfo         *acp.Implementation    `json:"clientInfo,omitempty"`
	}

	initializeResultBody struct {
		ProtocolVersion   int                   `json:"protocolVersion"`
		AgentCapabilities acp.AgentCapabilities `json:"agentCapabilities"`
		AuthMethods       []acp.AuthMethod      `json:"authMethods,omitempty"`
		AgentInfo         *acp.Implementation   `json:"agentInfo,omitempty"`
	}

	authenticateParams struct {
		MethodID string `json:"methodId"`
	}

	sessionNewParams struct {
		Cwd        string          `json:"cwd"`
		McpServers []acp.McpServer `json:"mcpServers"`
	}

	sessionNewResultBody struct {
		SessionID string         `json:"sessionId"`
		Modes     *acp.ModeState `json:"modes,omitempty"`
	}

	sessionLoadParams struct {
		SessionID  string          `json:"sessionId"`
		Cwd        string          `json:"cwd"`
		McpServers []acp.McpServer `json:"mcpServers"`
	}

	sessionLoadResultBody struct {
		Modes *acp.ModeState `json:"modes,omitempty"`
	}

	sessionPromptParams struct {
		SessionID string             `json:"sessionId"`
		Prompt    []acp.ContentBlock `json:"prompt"`
	}

	sessionPromptResultBody struct {
		StopReason string `json:"stopReason"`
	}

	sessionCancelParams struct {
		SessionID string `json:"sessionId"`
	}

	sessionSetModeParams struct {
		SessionID string `json:"sessionId"`
		ModeID    string `json:"modeId"`
	}

	sessionUpdateParams struct {
		SessionID string          `json:"sessionId"`
		Update    json.RawMessage `json:"update"`
	}

	sessionUpdateBody struct {
		Kind          string            `json:"sessionUpdate"`
		Content       *acp.ContentBlock `json:"content,omitempty"`
		CurrentModeID string            `json:"currentModeId,omitempty"`
	}

	fsReadParams struct {
		SessionID string `json:"sessionId"`
		Path      string `json:"path"`
		Line      *int   `json:"line,omitempty"`
		Limit     *int   `json:"limit,omitempty"`
	}

	fsReadResultBody struct {
		Content string `json:"content"`
	}

	fsWriteParams struct {
		SessionID string `json:"sessionId"`
		Path      string `json:"path"`
		Content   string `json:"content"`
	}

	permissionParams struct {
		SessionID string                 `json:"sessionId"`
		ToolCall  acp.ToolCallRef        `json:"toolCall"`
		Options   []acp.PermissionOption `json:"options"`
	}

	permissionResultBody struct {
		Outcome acp.PermissionOutcome `json:"outcome"`
	}

	terminalCreateParams struct {
		SessionID string   `json:"sessionId"`
		Command   string   `json:"command"`
		Args      []string `json:"args,omitempty"`
		Cwd       string   `json:"cwd,omitempty"`
	}

	terminalCreateResultBody struct {
		TerminalID string `json:"terminalId"`
	}

	terminalIDParams struct {
		SessionID  string `json:"sessionId"`
		TerminalID string `json:"terminalId"`
	}

	terminalOutputResultBody struct {
		Output     string                  `json:"output"`
		Truncated  bool                    `json:"truncated"`
		ExitStatus *acp.TerminalExitStatus `json:"exitStatus,omitempty"`
	}

	// sessionProbe pulls a session id out of otherwise opaque params.
	sessionProbe struct {
		SessionID string `json:"sessionId"`
	}
)

// requestDirections scopes each known method to the peer allowed to send it.
var requestDirections = map[string]acp.Direction{
	acp.MethodInitialize:               acp.ClientToAgent,
	acp.MethodAuthenticate:             acp.ClientToAgent,
	acp.MethodSessionNew:               acp.ClientToAgent,
	acp.MethodSessionLoad:              acp.ClientToAgent,
	acp.MethodSessionPrompt:            acp.ClientToAgent,
	acp.MethodSessionCancel:            acp.ClientToAgent,
	acp.MethodSessionSetMode:           acp.ClientToAgent,
	acp.MethodSessionUpdate:            acp.AgentToClient,
	acp.MethodSessionRequestPermission: acp.AgentToClient,
	acp.MethodFsReadTextFile:           acp.AgentToClient,
	acp.MethodFsWriteTextFile:          acp.AgentToClient,
	acp.MethodTerminalCreate:           acp.AgentToClient,
	acp.MethodTerminalOutput:           acp.AgentToClient,
	acp.MethodTerminalWaitForExit:      acp.AgentToClient,
	acp.MethodTerminalKill:             acp.AgentToClient,
	acp.MethodTerminalRelease:          acp.AgentToClient,
}

// notificationMethods never await a response and are not tracked in the
// correlation table.
var notificationMethods = map[string]bool{
	acp.MethodSessionCancel: true,
	acp.MethodSessionUpdate: true,
}
