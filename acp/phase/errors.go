package phase

import (
	"fmt"

	"github.com/venikman/acp-sentinel/acp"
)

type (
	// Code classifies protocol violations detected by Step.
	Code string

	// ProtocolError reports an illegal transition. It is terminal for the
	// run: once Step returns an error, no further transitions are attempted
	// for that trace.
	ProtocolError struct {
		// Code is the violation class.
		Code Code
		// SessionID names the offending session, when one is known.
		SessionID acp.SessionID
		// Phase is the phase the machine was in.
		Phase string
		// Method is the method of the offending message.
		Method string
	}
)

const (
	// CodeUnknownSession marks a message referencing a session the machine
	// has never seen.
	CodeUnknownSession Code = "UNKNOWN_SESSION"
	// CodeSessionAlreadyExists marks a session/new result reusing a live id.
	CodeSessionAlreadyExists Code = "SESSION_ALREADY_EXISTS"
	// CodePromptAlreadyInFlight marks a prompt sent while the previous turn
	// is still open.
	CodePromptAlreadyInFlight Code = "PROMPT_ALREADY_IN_FLIGHT"
	// CodeNoPromptInFlight marks a prompt result arriving with no open turn.
	CodeNoPromptInFlight Code = "NO_PROMPT_IN_FLIGHT"
	// CodeUnexpectedMessage marks any message illegal for the current phase.
	CodeUnexpectedMessage Code = "UNEXPECTED_MESSAGE"
	// CodeDuplicateInitialize marks a second initialize request.
	CodeDuplicateInitialize Code = "DUPLICATE_INITIALIZE"
	// CodeInitializeResultWithoutRequest marks an initialize result arriving
	// before any initialize request.
	CodeInitializeResultWithoutRequest Code = "INITIALIZE_RESULT_WITHOUT_REQUEST"
)

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("protocol: %s", e.Code)
	if e.Method != "" {
		msg += fmt.Sprintf(" (method %s", e.Method)
		if e.Phase != "" {
			msg += fmt.Sprintf(" in phase %s", e.Phase)
		}
		msg += ")"
	}
	if e.SessionID != "" {
		msg += fmt.Sprintf(" session=%s", e.SessionID)
	}
	return msg
}

func unexpected(p Phase, m acp.Message) *ProtocolError {
	return &ProtocolError{Code: CodeUnexpectedMessage, Phase: p.String(), Method: m.Method()}
}
