// Package phase models the legal lifecycle of an agent connection as a pure
// state machine.
//
// A connection starts awaiting initialize, waits for the agent's initialize
// result, then stays Ready for session traffic. Step is a total function:
// every (phase, message) pair yields either the successor phase or a
// ProtocolError, never a panic. Phases are immutable values; Ready owns its
// per-session map and stepping returns a fresh copy on change, which keeps
// independent runs trivially parallelizable.
package phase

import "github.com/venikman/acp-sentinel/acp"

type (
	// Phase is the connection's lifecycle state.
	Phase interface {
		String() string
		phase()
	}

	// AwaitingInitialize is the initial phase: only a client initialize
	// request is legal.
	AwaitingInitialize struct{}

	// WaitingForInitializeResult waits for the agent to answer initialize.
	WaitingForInitializeResult struct{}

	// Ready is the steady state. Sessions holds per-session runtime state,
	// keyed by session id. The map is owned by the phase value: callers must
	// treat it as read-only.
	Ready struct {
		Sessions map[acp.SessionID]SessionState
	}

	// TurnState tracks whether a session has a prompt turn in flight.
	TurnState string

	// SessionState is the runtime state of one established session.
	SessionState struct {
		Turn TurnState
		Mode *ModeState
	}

	// ModeState mirrors the mode information advertised for a session.
	ModeState struct {
		CurrentModeID string
		AvailableIDs  []string
	}
)

const (
	// TurnIdle means no prompt is awaiting its result.
	TurnIdle TurnState = "idle"
	// TurnPromptInFlight means a prompt was sent and its result is pending.
	TurnPromptInFlight TurnState = "prompt_in_flight"
)

func (AwaitingInitialize) String() string         { return "awaiting_initialize" }
func (WaitingForInitializeResult) String() string { return "waiting_for_initialize_result" }
func (Ready) String() string                      { return "ready" }

func (AwaitingInitialize) phase()         {}
func (WaitingForInitializeResult) phase() {}
func (Ready) phase()                      {}

// Session returns the state of the given session and whether it exists.
func (r Ready) Session(id acp.SessionID) (SessionState, bool) {
	st, ok := r.Sessions[id]
	return st, ok
}

// withSession returns a Ready with the session set, leaving the receiver
// untouched.
func (r Ready) withSession(id acp.SessionID, st SessionState) Ready {
	next := make(map[acp.SessionID]SessionState, len(r.Sessions)+1)
	for k, v := range r.Sessions {
		next[k] = v
	}
	next[id] = st
	return Ready{Sessions: next}
}

// modeStateFrom converts advertised modes into tracked mode state.
func modeStateFrom(m *acp.ModeState) *ModeState {
	if m == nil {
		return nil
	}
	ids := make([]string, 0, len(m.AvailableModes))
	for _, mode := range m.AvailableModes {
		ids = append(ids, mode.ID)
	}
	return &ModeState{CurrentModeID: m.CurrentModeID, AvailableIDs: ids}
}

// withCurrentMode returns a copy of the session state pointing at the given
// mode id. Mode validity is not this package's law; the sentinel layer flags
// unknown ids.
func (s SessionState) withCurrentMode(modeID string) SessionState {
	if s.Mode == nil {
		return s
	}
	mode := *s.Mode
	mode.CurrentModeID = modeID
	s.Mode = &mode
	return s
}
