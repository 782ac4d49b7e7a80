package phase

import "github.com/venikman/acp-sentinel/acp"

type (
	// StepFunc advances a phase by one message or rejects it.
	StepFunc func(Phase, acp.Message) (Phase, *ProtocolError)

	// Spec bundles an initial phase with its transition function so engines
	// can fold it over a message trace without knowing the machine's shape.
	Spec struct {
		Initial Phase
		Step    StepFunc
	}
)

// Default returns the protocol's connection/session lifecycle machine.
func Default() Spec {
	return Spec{Initial: AwaitingInitialize{}, Step: Step}
}

// Step is the transition function. It is pure and total: the input phase is
// never mutated and every message yields exactly one phase or one error.
func Step(p Phase, m acp.Message) (Phase, *ProtocolError) {
	switch ph := p.(type) {
	case AwaitingInitialize:
		switch m.(type) {
		case *acp.InitializeRequest:
			return WaitingForInitializeResult{}, nil
		case *acp.InitializeResult:
			return p, &ProtocolError{Code: CodeInitializeResultWithoutRequest, Phase: p.String(), Method: m.Method()}
		default:
			return p, unexpected(p, m)
		}

	case WaitingForInitializeResult:
		switch m.(type) {
		case *acp.InitializeResult:
			return Ready{}, nil
		case *acp.InitializeRequest:
			return p, &ProtocolError{Code: CodeDuplicateInitialize, Phase: p.String(), Method: m.Method()}
		default:
			return p, unexpected(p, m)
		}

	case Ready:
		return stepReady(ph, m)
	}
	return p, unexpected(p, m)
}

func stepReady(r Ready, m acp.Message) (Phase, *ProtocolError) {
	switch msg := m.(type) {
	case *acp.InitializeRequest:
		return r, &ProtocolError{Code: CodeDuplicateInitialize, Phase: r.String(), Method: m.Method()}
	case *acp.InitializeResult:
		return r, unexpected(r, m)

	case *acp.AuthenticateRequest, *acp.AuthenticateResult:
		return r, nil

	case *acp.SessionNewRequest:
		// The session id is born in the result, not the request.
		return r, nil

	case *acp.SessionNewResult:
		if _, exists := r.Session(msg.SessionID); exists {
			return r, &ProtocolError{Code: CodeSessionAlreadyExists, SessionID: msg.SessionID, Phase: r.String(), Method: m.Method()}
		}
		return r.withSession(msg.SessionID, SessionState{Turn: TurnIdle, Mode: modeStateFrom(msg.Modes)}), nil

	case *acp.SessionLoadRequest:
		// Loading an id the machine has not seen is legal: sessions outlive
		// connections.
		return r, nil

	case *acp.SessionLoadResult:
		return r.withSession(msg.SessionID, SessionState{Turn: TurnIdle, Mode: modeStateFrom(msg.Modes)}), nil

	case *acp.SessionPromptRequest:
		st, exists := r.Session(msg.SessionID)
		if !exists {
			return r, unknownSession(r, m, msg.SessionID)
		}
		if st.Turn == TurnPromptInFlight {
			return r, &ProtocolError{Code: CodePromptAlreadyInFlight, SessionID: msg.SessionID, Phase: r.String(), Method: m.Method()}
		}
		st.Turn = TurnPromptInFlight
		return r.withSession(msg.SessionID, st), nil

	case *acp.SessionPromptResult:
		return closeTurn(r, m, msg.SessionID)

	case *acp.ErrorResponse:
		if msg.ReqMethod == acp.MethodSessionPrompt {
			return closeTurn(r, m, msg.SessionID)
		}
		if msg.SessionID != "" {
			if _, exists := r.Session(msg.SessionID); !exists {
				return r, unknownSession(r, m, msg.SessionID)
			}
		}
		return r, nil

	case *acp.SessionCancelNotification:
		if _, exists := r.Session(msg.SessionID); !exists {
			return r, unknownSession(r, m, msg.SessionID)
		}
		// Cancellation does not close the turn; the matching result does.
		return r, nil

	case *acp.SessionSetModeRequest:
		st, exists := r.Session(msg.SessionID)
		if !exists {
			return r, unknownSession(r, m, msg.SessionID)
		}
		return r.withSession(msg.SessionID, st.withCurrentMode(msg.ModeID)), nil

	case *acp.SessionUpdateNotification:
		st, exists := r.Session(msg.SessionID)
		if !exists {
			return r, unknownSession(r, m, msg.SessionID)
		}
		if msg.Update.Kind == acp.UpdateCurrentMode {
			return r.withSession(msg.SessionID, st.withCurrentMode(msg.Update.CurrentModeID)), nil
		}
		return r, nil

	case *acp.ExtRequest, *acp.ExtNotification, *acp.ExtResponse:
		// Extension traffic is always legal; forward compatibility trumps
		// strictness here.
		return r, nil
	}

	// Remaining variants are the tool-surface requests/results; they only
	// need their session to exist.
	if sid, ok := acp.SessionOf(m); ok {
		if _, exists := r.Session(sid); !exists {
			return r, unknownSession(r, m, sid)
		}
		return r, nil
	}
	return r, nil
}

func closeTurn(r Ready, m acp.Message, sid acp.SessionID) (Phase, *ProtocolError) {
	st, exists := r.Session(sid)
	if !exists {
		return r, unknownSession(r, m, sid)
	}
	if st.Turn != TurnPromptInFlight {
		return r, &ProtocolError{Code: CodeNoPromptInFlight, SessionID: sid, Phase: r.String(), Method: m.Method()}
	}
	st.Turn = TurnIdle
	return r.withSession(sid, st), nil
}

func unknownSession(r Ready, m acp.Message, sid acp.SessionID) *ProtocolError {
	return &ProtocolError{Code: CodeUnknownSession, SessionID: sid, Phase: r.String(), Method: m.Method()}
}
