// Package acp defines the typed message model for the Agent Client Protocol,
// the JSON-RPC based protocol spoken between an editor-style client and an AI
// coding agent.
//
// The model is a closed union: one struct per direction and method for the
// known session, filesystem, permission and terminal surfaces, plus Ext*
// escape hatches that carry unrecognized methods losslessly. Consumers match
// the union exhaustively via type switches; unknown methods are first-class
// values, never errors.
package acp

import (
	"encoding/json"
	"fmt"
)

type (
	// Direction identifies which peer produced a message.
	Direction string

	// SessionID is an opaque session identifier, compared by value.
	SessionID string

	// RequestID is a JSON-RPC request id. Ids are string or number tokens
	// used only to correlate responses with requests; their content is never
	// interpreted. The zero value means "no id" (notification).
	RequestID struct {
		raw string
	}

	// StopReason explains why an agent ended a prompt turn.
	StopReason string

	// Message is the sealed union of all protocol messages. Every variant
	// reports its direction and the JSON-RPC method it belongs to (for
	// responses, the method of the correlated request).
	Message interface {
		Direction() Direction
		Method() string
		acpMessage()
	}

	// Sessioned is implemented by messages that reference a session.
	Sessioned interface {
		Session() SessionID
	}
)

const (
	// ClientToAgent marks messages sent by the editor/client.
	ClientToAgent Direction = "client"
	// AgentToClient marks messages sent by the coding agent.
	AgentToClient Direction = "agent"
)

// Known method names, direction-scoped. Requests for fs, permission and
// terminal surfaces travel agent→client; session lifecycle requests travel
// client→agent.
const (
	MethodInitialize               = "initialize"
	MethodAuthenticate             = "authenticate"
	MethodSessionNew               = "session/new"
	MethodSessionLoad              = "session/load"
	MethodSessionPrompt            = "session/prompt"
	MethodSessionCancel            = "session/cancel"
	MethodSessionSetMode           = "session/set_mode"
	MethodSessionUpdate            = "session/update"
	MethodSessionRequestPermission = "session/request_permission"
	MethodFsReadTextFile           = "fs/read_text_file"
	MethodFsWriteTextFile          = "fs/write_text_file"
	MethodTerminalCreate           = "terminal/create"
	MethodTerminalOutput           = "terminal/output"
	MethodTerminalWaitForExit      = "terminal/wait_for_exit"
	MethodTerminalKill             = "terminal/kill"
	MethodTerminalRelease          = "terminal/release"
)

// Well-known stop reasons reported by session/prompt results.
const (
	StopEndTurn         StopReason = "end_turn"
	StopMaxTokens       StopReason = "max_tokens"
	StopMaxTurnRequests StopReason = "max_turn_requests"
	StopRefusal         StopReason = "refusal"
	StopCancelled       StopReason = "cancelled"
)

// Opposite returns the other peer's direction.
func (d Direction) Opposite() Direction {
	if d == ClientToAgent {
		return AgentToClient
	}
	return ClientToAgent
}

// StringID builds a RequestID from a string token.
func StringID(s string) RequestID {
	b, _ := json.Marshal(s)
	return RequestID{raw: string(b)}
}

// NumberID builds a RequestID from an integer token.
func NumberID(n int64) RequestID {
	return RequestID{raw: fmt.Sprintf("%d", n)}
}

// IsZero reports whether the id is absent (notification).
func (id RequestID) IsZero() bool { return id.raw == "" }

// String returns the raw JSON token of the id.
func (id RequestID) String() string { return id.raw }

// MarshalJSON writes the id back exactly as it appeared on the wire.
func (id RequestID) MarshalJSON() ([]byte, error) {
	if id.raw == "" {
		return []byte("null"), nil
	}
	return []byte(id.raw), nil
}

// UnmarshalJSON accepts string or number tokens and stores them verbatim so
// ids survive round-trips without numeric reinterpretation.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch probe.(type) {
	case string, float64:
		compact := make([]byte, 0, len(data))
		compact = append(compact, data...)
		id.raw = string(compact)
		return nil
	case nil:
		id.raw = ""
		return nil
	default:
		return fmt.Errorf("acp: request id must be a string or number, got %s", data)
	}
}

// SessionOf extracts the session id referenced by a message, if any.
func SessionOf(m Message) (SessionID, bool) {
	s, ok := m.(Sessioned)
	if !ok || s.Session() == "" {
		return "", false
	}
	return s.Session(), true
}
