package sentinel

import (
	"fmt"

	"github.com/venikman/acp-sentinel/acp"
)

// Session-lane checks run over the whole trace after the fold. Each check is
// independent and pure; order of emission is check order, then occurrence
// order within a check.

// checkCancelConsistency flags turns where the user cancelled mid-turn but
// the agent reported a non-cancelled stop reason. The outcome classifier
// still treats such turns as user-cancelled; the finding preserves the
// disagreement as a separate signal.
func checkCancelConsistency(sid acp.SessionID, trace Trace) []Finding {
	msgs := trace.Messages

	promptIdx := -1
	for i, m := range msgs {
		if pr, ok := m.(*acp.SessionPromptRequest); ok && pr.SessionID == sid {
			promptIdx = i
			break
		}
	}
	if promptIdx < 0 {
		return nil
	}

	closeIdx := -1
	var stop acp.StopReason
	resultSeen := false
	for i := promptIdx + 1; i < len(msgs) && closeIdx < 0; i++ {
		switch m := msgs[i].(type) {
		case *acp.SessionPromptResult:
			if m.SessionID == sid {
				closeIdx = i
				stop = m.StopReason
				resultSeen = true
			}
		case *acp.ErrorResponse:
			if m.ReqMethod == acp.MethodSessionPrompt && m.SessionID == sid {
				closeIdx = i
			}
		}
	}
	if closeIdx < 0 || !resultSeen || stop == acp.StopCancelled {
		return nil
	}

	for i := promptIdx + 1; i < closeIdx; i++ {
		if c, ok := msgs[i].(*acp.SessionCancelNotification); ok && c.SessionID == sid {
			return []Finding{{
				Lane:       LaneSession,
				Severity:   SeverityError,
				Subject:    PromptTurnSubject(sid, 1),
				Failure:    FailureCancelMismatch,
				SessionID:  sid,
				TraceIndex: indexPtr(closeIdx),
				Note:       fmt.Sprintf("stop reason %q reported after user cancel", stop),
			}}
		}
	}
	return nil
}

// checkTurnConcurrency enforces prompt turn exclusivity with a running
// open-prompt counter. Cancel never closes a turn; only the matching result
// or error does.
func checkTurnConcurrency(sid acp.SessionID, trace Trace) []Finding {
	var findings []Finding
	open := 0
	for i, m := range trace.Messages {
		switch msg := m.(type) {
		case *acp.SessionPromptRequest:
			if msg.SessionID != sid {
				continue
			}
			if open > 0 {
				findings = append(findings, sessionFinding(sid, i, FailureMultiplePrompts,
					fmt.Sprintf("%d prompt(s) already awaiting a result", open)))
			}
			open++
		case *acp.SessionPromptResult:
			if msg.SessionID != sid {
				continue
			}
			if open == 0 {
				findings = append(findings, sessionFinding(sid, i, FailureResultWithoutPrompt,
					"prompt result with no open turn"))
				continue
			}
			open--
		case *acp.ErrorResponse:
			if msg.ReqMethod != acp.MethodSessionPrompt || msg.SessionID != sid {
				continue
			}
			if open == 0 {
				findings = append(findings, sessionFinding(sid, i, FailureErrorWithoutPrompt,
					"prompt error with no open turn"))
				continue
			}
			open--
		}
	}
	return findings
}

// checkModeValidity replays advertised mode state and flags mode ids outside
// the advertised set. Mode problems are structural, not protocol-fatal, which
// is why they live here and not in the phase machine.
func checkModeValidity(sid acp.SessionID, trace Trace) []Finding {
	var findings []Finding
	var available map[string]bool

	adopt := func(i int, modes *acp.ModeState) {
		if modes == nil {
			return
		}
		available = make(map[string]bool, len(modes.AvailableModes))
		for _, m := range modes.AvailableModes {
			available[m.ID] = true
		}
		if modes.CurrentModeID != "" && !available[modes.CurrentModeID] {
			findings = append(findings, Finding{
				Lane:       LaneSession,
				Severity:   SeverityError,
				Subject:    MessageAtSubject(i),
				Failure:    FailureCurrentModeUnavailable,
				SessionID:  sid,
				TraceIndex: indexPtr(i),
				Note:       fmt.Sprintf("advertised current mode %q is not in the available set", modes.CurrentModeID),
			})
		}
	}

	for i, m := range trace.Messages {
		switch msg := m.(type) {
		case *acp.SessionNewResult:
			if msg.SessionID == sid {
				adopt(i, msg.Modes)
			}
		case *acp.SessionLoadResult:
			if msg.SessionID == sid {
				adopt(i, msg.Modes)
			}
		case *acp.SessionSetModeRequest:
			if msg.SessionID != sid {
				continue
			}
			if available == nil {
				findings = append(findings, Finding{
					Lane:       LaneSession,
					Severity:   SeverityWarning,
					Subject:    MessageAtSubject(i),
					Failure:    FailureSetModeWithoutModes,
					SessionID:  sid,
					TraceIndex: indexPtr(i),
					Note:       "set_mode before any mode state was advertised",
				})
				continue
			}
			if !available[msg.ModeID] {
				findings = append(findings, Finding{
					Lane:       LaneSession,
					Severity:   SeverityError,
					Subject:    MessageAtSubject(i),
					Failure:    FailureInvalidModeID,
					SessionID:  sid,
					TraceIndex: indexPtr(i),
					Note:       fmt.Sprintf("mode %q is not in the available set", msg.ModeID),
				})
			}
		case *acp.SessionUpdateNotification:
			if msg.SessionID != sid || msg.Update.Kind != acp.UpdateCurrentMode {
				continue
			}
			if available != nil && !available[msg.Update.CurrentModeID] {
				findings = append(findings, Finding{
					Lane:       LaneSession,
					Severity:   SeverityError,
					Subject:    MessageAtSubject(i),
					Failure:    FailureCurrentModeUnavailable,
					SessionID:  sid,
					TraceIndex: indexPtr(i),
					Note:       fmt.Sprintf("reported current mode %q is not in the available set", msg.Update.CurrentModeID),
				})
			}
		}
	}
	return findings
}

func sessionFinding(sid acp.SessionID, index int, failure, note string) Finding {
	return Finding{
		Lane:       LaneSession,
		Severity:   SeverityError,
		Subject:    MessageAtSubject(index),
		Failure:    failure,
		SessionID:  sid,
		TraceIndex: indexPtr(index),
		Note:       note,
	}
}

func indexPtr(i int) *int { return &i }
