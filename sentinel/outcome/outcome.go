// Package outcome reduces a validation report to a single verdict for the
// prompt turn it covers. Classification is two-tier: hard protocol state
// comes first, then trace evidence, so a user cancel always wins over a
// disagreeing stop reason.
package outcome

import (
	"fmt"

	"github.com/venikman/acp-sentinel/acp"
	"github.com/venikman/acp-sentinel/sentinel"
)

type (
	// Kind is the verdict class.
	Kind string

	// Outcome is the classified result of one validated turn.
	Outcome struct {
		Kind Kind
		// StopReason is set only for Completed outcomes.
		StopReason acp.StopReason
		// Detail is a human-readable explanation of the verdict.
		Detail string
	}
)

const (
	// Completed marks a turn that closed with an agent-reported stop reason.
	Completed Kind = "completed"
	// CancelledByUser marks a turn the client cancelled, regardless of what
	// stop reason the agent later reported.
	CancelledByUser Kind = "cancelled_by_user"
	// ProtocolViolation marks a turn invalidated by a protocol error or a
	// session-lane finding.
	ProtocolViolation Kind = "protocol_violation"
	// AgentInternalFailure marks a turn the agent failed to close.
	AgentInternalFailure Kind = "agent_internal_failure"
)

// Classify reduces a report to one outcome. Phase errors dominate, then a
// user cancel, then a reported result. When no result closed the turn, an
// agent error response outranks any session-lane finding: the agent's own
// failure is the direct explanation for the missing result, while the
// finding may concern unrelated traffic earlier in the session.
func Classify(rep sentinel.Report) Outcome {
	if rep.Err != nil {
		return Outcome{
			Kind:   ProtocolViolation,
			Detail: fmt.Sprintf("protocol error %s: %s", rep.Err.Code, rep.Err.Error()),
		}
	}

	var (
		cancelled bool
		result    *acp.SessionPromptResult
		rpcErr    *acp.ErrorResponse
	)
	for _, m := range rep.Trace.Messages {
		switch msg := m.(type) {
		case *acp.SessionCancelNotification:
			if msg.SessionID == rep.SessionID {
				cancelled = true
			}
		case *acp.SessionPromptResult:
			if msg.SessionID == rep.SessionID {
				result = msg
			}
		case *acp.ErrorResponse:
			if msg.ReqMethod == acp.MethodSessionPrompt && msg.SessionID == rep.SessionID {
				rpcErr = msg
			}
		}
	}

	if cancelled {
		return Outcome{Kind: CancelledByUser, Detail: "client cancelled the turn"}
	}
	if result != nil {
		return Outcome{
			Kind:       Completed,
			StopReason: result.StopReason,
			Detail:     fmt.Sprintf("agent stopped with %q", result.StopReason),
		}
	}
	if rpcErr != nil {
		return Outcome{
			Kind:   AgentInternalFailure,
			Detail: fmt.Sprintf("agent returned error %d: %s", rpcErr.Err.Code, rpcErr.Err.Message),
		}
	}
	for _, f := range rep.Findings {
		if f.Lane == sentinel.LaneSession {
			return Outcome{
				Kind:   ProtocolViolation,
				Detail: fmt.Sprintf("session finding %s", f.Failure),
			}
		}
	}
	return Outcome{Kind: AgentInternalFailure, Detail: "no result observed for the turn"}
}
