// Package sentinel judges protocol conformance of a full message trace. It
// folds the phase machine over the messages, layers whole-trace session
// checks on top, and reports everything as structured, lane-tagged findings.
package sentinel

import (
	"fmt"

	"github.com/venikman/acp-sentinel/acp"
)

type (
	// Lane names the validation dimension a finding belongs to.
	Lane string

	// Severity grades a finding.
	Severity string

	// SubjectKind discriminates what a finding is anchored to.
	SubjectKind string

	// Subject identifies the entity a finding is about.
	Subject struct {
		Kind SubjectKind
		// SessionID is set for Session and PromptTurn subjects.
		SessionID acp.SessionID
		// Ordinal is the 1-based prompt turn number for PromptTurn subjects.
		Ordinal int
		// Index is the trace index for MessageAt subjects.
		Index int
		// ToolCallID is set for ToolCall subjects.
		ToolCallID string
	}

	// Finding is one structured validation observation. Findings are
	// advisory: they never stop the engine, and the engine never drops one.
	Finding struct {
		Lane       Lane
		Severity   Severity
		Subject    Subject
		Failure    string
		SessionID  acp.SessionID
		TraceIndex *int
		Note       string
	}
)

const (
	LaneProtocol       Lane = "protocol"
	LaneSession        Lane = "session"
	LaneToolSurface    Lane = "tool_surface"
	LaneTransport      Lane = "transport"
	LaneEval           Lane = "eval"
	LaneImplementation Lane = "implementation"
)

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

const (
	SubjectConnection SubjectKind = "connection"
	SubjectSession    SubjectKind = "session"
	SubjectPromptTurn SubjectKind = "prompt_turn"
	SubjectMessageAt  SubjectKind = "message_at"
	SubjectToolCall   SubjectKind = "tool_call"
)

// Session-lane failure codes.
const (
	FailureCancelMismatch         = "CANCEL_MISMATCH"
	FailureMultiplePrompts        = "MULTIPLE_PROMPTS_IN_FLIGHT"
	FailureResultWithoutPrompt    = "RESULT_WITHOUT_PROMPT"
	FailureErrorWithoutPrompt     = "ERROR_WITHOUT_PROMPT"
	FailureSetModeWithoutModes    = "SET_MODE_WITHOUT_MODES"
	FailureInvalidModeID          = "INVALID_MODE_ID"
	FailureCurrentModeUnavailable = "CURRENT_MODE_NOT_IN_AVAILABLE_MODES"
)

// Transport- and implementation-lane failure codes used by profile checks.
const (
	FailureMessageTooLarge     = "MESSAGE_TOO_LARGE"
	FailureExtMethodNotAllowed = "EXT_METHOD_NOT_ALLOWED"
	FailureExtPayloadSchema    = "EXT_PAYLOAD_SCHEMA"
)

// ConnectionSubject anchors a finding to the whole connection.
func ConnectionSubject() Subject {
	return Subject{Kind: SubjectConnection}
}

// SessionSubject anchors a finding to one session.
func SessionSubject(sid acp.SessionID) Subject {
	return Subject{Kind: SubjectSession, SessionID: sid}
}

// PromptTurnSubject anchors a finding to the nth prompt turn of a session.
func PromptTurnSubject(sid acp.SessionID, ordinal int) Subject {
	return Subject{Kind: SubjectPromptTurn, SessionID: sid, Ordinal: ordinal}
}

// MessageAtSubject anchors a finding to one trace position.
func MessageAtSubject(index int) Subject {
	return Subject{Kind: SubjectMessageAt, Index: index}
}

// ToolCallSubject anchors a finding to one tool call.
func ToolCallSubject(id string) Subject {
	return Subject{Kind: SubjectToolCall, ToolCallID: id}
}

// String renders a subject for reports and persisted records.
func (s Subject) String() string {
	switch s.Kind {
	case SubjectSession:
		return fmt.Sprintf("session(%s)", s.SessionID)
	case SubjectPromptTurn:
		return fmt.Sprintf("prompt_turn(%s,%d)", s.SessionID, s.Ordinal)
	case SubjectMessageAt:
		return fmt.Sprintf("message_at(%d)", s.Index)
	case SubjectToolCall:
		return fmt.Sprintf("tool_call(%s)", s.ToolCallID)
	default:
		return "connection"
	}
}
