// Package codec turns raw JSON-RPC frames into typed acp messages and back.
//
// Decoding is stateful in one narrow sense: responses carry neither method nor
// session id, so the codec keeps a correlation table (State) mapping in-flight
// request ids to the context needed to type their eventual response. The table
// is an immutable value threaded explicitly by the caller; a failed decode
// never changes it.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/venikman/acp-sentinel/acp"
)

// Decode parses one raw JSON-RPC frame produced by the peer identified by dir
// and returns the successor correlation state together with the typed message.
// Unknown methods never fail: they decode into Ext* variants carrying the raw
// payload. On error the returned state is the input state, unchanged.
func Decode(dir acp.Direction, state State, raw []byte) (State, acp.Message, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return state, nil, malformed(err)
	}
	if env.Method != "" {
		return decodeRequest(dir, state, env)
	}
	id, hasID, err := parseID(env.ID)
	if err != nil {
		return state, nil, malformed(err)
	}
	if hasID && (env.Result != nil || env.Error != nil) {
		return decodeResponse(dir, state, id, env)
	}
	return state, nil, malformed(errors.New("frame is neither a request nor a response"))
}

func parseID(raw json.RawMessage) (acp.RequestID, bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return acp.RequestID{}, false, nil
	}
	var id acp.RequestID
	if err := json.Unmarshal(raw, &id); err != nil {
		return acp.RequestID{}, false, err
	}
	return id, true, nil
}

func decodeRequest(dir acp.Direction, state State, env envelope) (State, acp.Message, error) {
	if want, known := requestDirections[env.Method]; known && want != dir {
		return state, nil, &DecodeError{Kind: ErrDirectionMismatch, Method: env.Method, Expected: want}
	}
	id, hasID, err := parseID(env.ID)
	if err != nil {
		return state, nil, malformed(err)
	}

	msg, session, err := decodeTypedRequest(env.Method, id, env.Params)
	if err != nil {
		return state, nil, err
	}
	if msg == nil {
		// Unknown method: preserve it losslessly.
		var probe sessionProbe
		_ = json.Unmarshal(env.Params, &probe)
		session = acp.SessionID(probe.SessionID)
		if hasID {
			msg = &acp.ExtRequest{Dir: dir, ID: id, ExtMethod: env.Method, Params: env.Params}
		} else {
			msg = &acp.ExtNotification{Dir: dir, ExtMethod: env.Method, Params: env.Params}
		}
	}
	if hasID && !notificationMethods[env.Method] {
		state = state.with(pendingKey{dir: dir, id: id}, pendingEntry{method: env.Method, session: session})
	}
	return state, msg, nil
}

// decodeTypedRequest builds the typed variant for a known method. It returns a
// nil message (and nil error) for unrecognized methods so the caller can fall
// back to the Ext escape hatch.
func decodeTypedRequest(method string, id acp.RequestID, params json.RawMessage) (acp.Message, acp.SessionID, error) {
	switch method {
	case acp.MethodInitialize:
		var p initializeParams
		if err := unmarshalParams(method, params, &p); err != nil {
			return nil, "", err
		}
		return &acp.InitializeRequest{
			ID:                 id,
			ProtocolVersion:    p.ProtocolVersion,
			ClientCapabilities: p.ClientCapabilities,
			ClientInfo:         p.ClientInfo,
		}, "", nil

	case acp.MethodAuthenticate:
		var p authenticateParams
		if err := unmarshalParams(method, params, &p); err != nil {
			return nil, "", err
		}
		return &acp.AuthenticateRequest{ID: id, MethodID: p.MethodID}, "", nil

	case acp.MethodSessionNew:
		var p sessionNewParams
		if err := unmarshalParams(method, params, &p); err != nil {
			return nil, "", err
		}
		return &acp.SessionNewRequest{ID: id, Cwd: p.Cwd, McpServers: p.McpServers}, "", nil

	case acp.MethodSessionLoad:
		var p sessionLoadParams
		if err := unmarshalParams(method, params, &p); err != nil {
			return nil, "", err
		}
		sid := acp.SessionID(p.SessionID)
		return &acp.SessionLoadRequest{ID: id, SessionID: sid, Cwd: p.Cwd, McpServers: p.McpServers}, sid, nil

	case acp.MethodSessionPrompt:
		var p sessionPromptParams
		if err := unmarshalParams(method, params, &p); err != nil {
			return nil, "", err
		}
		sid := acp.SessionID(p.SessionID)
		return &acp.SessionPromptRequest{ID: id, SessionID: sid, Prompt: p.Prompt}, sid, nil

	case acp.MethodSessionCancel:
		var p sessionCancelParams
		if err := unmarshalParams(method, params, &p); err != nil {
			return nil, "", err
		}
		sid := acp.SessionID(p.SessionID)
		return &acp.SessionCancelNotification{SessionID: sid}, sid, nil

	case acp.MethodSessionSetMode:
		var p sessionSetModeParams
		if err := unmarshalParams(method, params, &p); err != nil {
			return nil, "", err
		}
		sid := acp.SessionID(p.SessionID)
		return &acp.SessionSetModeRequest{ID: id, SessionID: sid, ModeID: p.ModeID}, sid, nil

	case acp.MethodSessionUpdate:
		var p sessionUpdateParams
		if err := unmarshalParams(method, params, &p); err != nil {
			return nil, "", err
		}
		update, err := decodeUpdate(p.Update)
		if err != nil {
			return nil, "", invalidPayload(method, err)
		}
		sid := acp.SessionID(p.SessionID)
		return &acp.SessionUpdateNotification{SessionID: sid, Update: update}, sid, nil

	case acp.MethodFsReadTextFile:
		var p fsReadParams
		if err := unmarshalParams(method, params, &p); err != nil {
			return nil, "", err
		}
		sid := acp.SessionID(p.SessionID)
		return &acp.FsReadRequest{ID: id, SessionID: sid, Path: p.Path, Line: p.Line, Limit: p.Limit}, sid, nil

	case acp.MethodFsWriteTextFile:
		var p fsWriteParams
		if err := unmarshalParams(method, params, &p); err != nil {
			return nil, "", err
		}
		sid := acp.SessionID(p.SessionID)
		return &acp.FsWriteRequest{ID: id, SessionID: sid, Path: p.Path, Content: p.Content}, sid, nil

	case acp.MethodSessionRequestPermission:
		var p permissionParams
		if err := unmarshalParams(method, params, &p); err != nil {
			return nil, "", err
		}
		sid := acp.SessionID(p.SessionID)
		return &acp.PermissionRequest{ID: id, SessionID: sid, ToolCall: p.ToolCall, Options: p.Options}, sid, nil

	case acp.MethodTerminalCreate:
		var p terminalCreateParams
		if err := unmarshalParams(method, params, &p); err != nil {
			return nil, "", err
		}
		sid := acp.SessionID(p.SessionID)
		return &acp.TerminalCreateRequest{ID: id, SessionID: sid, Command: p.Command, Args: p.Args, Cwd: p.Cwd}, sid, nil

	case acp.MethodTerminalOutput, acp.MethodTerminalWaitForExit, acp.MethodTerminalKill, acp.MethodTerminalRelease:
		var p terminalIDParams
		if err := unmarshalParams(method, params, &p); err != nil {
			return nil, "", err
		}
		sid := acp.SessionID(p.SessionID)
		switch method {
		case acp.MethodTerminalOutput:
			return &acp.TerminalOutputRequest{ID: id, SessionID: sid, TerminalID: p.TerminalID}, sid, nil
		case acp.MethodTerminalWaitForExit:
			return &acp.TerminalWaitRequest{ID: id, SessionID: sid, TerminalID: p.TerminalID}, sid, nil
		case acp.MethodTerminalKill:
			return &acp.TerminalKillRequest{ID: id, SessionID: sid, TerminalID: p.TerminalID}, sid, nil
		default:
			return &acp.TerminalReleaseRequest{ID: id, SessionID: sid, TerminalID: p.TerminalID}, sid, nil
		}
	}
	return nil, "", nil
}

func decodeResponse(dir acp.Direction, state State, id acp.RequestID, env envelope) (State, acp.Message, error) {
	key := pendingKey{dir: dir.Opposite(), id: id}
	entry, ok := state.lookup(key)
	if !ok {
		return state, nil, &DecodeError{Kind: ErrUnmatchedResponse, ID: id}
	}
	next := state.without(key)

	if env.Error != nil {
		return next, &acp.ErrorResponse{
			Dir:       dir,
			ID:        id,
			ReqMethod: entry.method,
			SessionID: entry.session,
			Err:       *env.Error,
		}, nil
	}

	msg, err := decodeTypedResult(dir, entry, id, env.Result)
	if err != nil {
		return state, nil, err
	}
	return next, msg, nil
}

func decodeTypedResult(dir acp.Direction, entry pendingEntry, id acp.RequestID, result json.RawMessage) (acp.Message, error) {
	switch entry.method {
	case acp.MethodInitialize:
		var r initializeResultBody
		if err := unmarshalResult(entry.method, result, &r); err != nil {
			return nil, err
		}
		return &acp.InitializeResult{
			ID:                id,
			ProtocolVersion:   r.ProtocolVersion,
			AgentCapabilities: r.AgentCapabilities,
			AuthMethods:       r.AuthMethods,
			AgentInfo:         r.AgentInfo,
		}, nil

	case acp.MethodAuthenticate:
		return &acp.AuthenticateResult{ID: id}, nil

	case acp.MethodSessionNew:
		var r sessionNewResultBody
		if err := unmarshalResult(entry.method, result, &r); err != nil {
			return nil, err
		}
		return &acp.SessionNewResult{ID: id, SessionID: acp.SessionID(r.SessionID), Modes: r.Modes}, nil

	case acp.MethodSessionLoad:
		// Load results are often null; mode state is optional.
		var r sessionLoadResultBody
		if len(result) > 0 && string(result) != "null" {
			if err := unmarshalResult(entry.method, result, &r); err != nil {
				return nil, err
			}
		}
		return &acp.SessionLoadResult{ID: id, SessionID: entry.session, Modes: r.Modes}, nil

	case acp.MethodSessionPrompt:
		var r sessionPromptResultBody
		if err := unmarshalResult(entry.method, result, &r); err != nil {
			return nil, err
		}
		return &acp.SessionPromptResult{ID: id, SessionID: entry.session, StopReason: acp.StopReason(r.StopReason)}, nil

	case acp.MethodSessionSetMode:
		return &acp.SessionSetModeResult{ID: id, SessionID: entry.session}, nil

	case acp.MethodFsReadTextFile:
		var r fsReadResultBody
		if err := unmarshalResult(entry.method, result, &r); err != nil {
			return nil, err
		}
		return &acp.FsReadResult{ID: id, SessionID: entry.session, Content: r.Content}, nil

	case acp.MethodFsWriteTextFile:
		return &acp.FsWriteResult{ID: id, SessionID: entry.session}, nil

	case acp.MethodSessionRequestPermission:
		var r permissionResultBody
		if err := unmarshalResult(entry.method, result, &r); err != nil {
			return nil, err
		}
		return &acp.PermissionResult{ID: id, SessionID: entry.session, Outcome: r.Outcome}, nil

	case acp.MethodTerminalCreate:
		var r terminalCreateResultBody
		if err := unmarshalResult(entry.method, result, &r); err != nil {
			return nil, err
		}
		return &acp.TerminalCreateResult{ID: id, SessionID: entry.session, TerminalID: r.TerminalID}, nil

	case acp.MethodTerminalOutput:
		var r terminalOutputResultBody
		if err := unmarshalResult(entry.method, result, &r); err != nil {
			return nil, err
		}
		return &acp.TerminalOutputResult{
			ID:         id,
			SessionID:  entry.session,
			Output:     r.Output,
			Truncated:  r.Truncated,
			ExitStatus: r.ExitStatus,
		}, nil

	case acp.MethodTerminalWaitForExit:
		var r acp.TerminalExitStatus
		if err := unmarshalResult(entry.method, result, &r); err != nil {
			return nil, err
		}
		return &acp.TerminalWaitResult{ID: id, SessionID: entry.session, ExitStatus: r}, nil

	case acp.MethodTerminalKill:
		return &acp.TerminalKillResult{ID: id, SessionID: entry.session}, nil

	case acp.MethodTerminalRelease:
		return &acp.TerminalReleaseResult{ID: id, SessionID: entry.session}, nil
	}
	return &acp.ExtResponse{Dir: dir, ID: id, ExtMethod: entry.method, Result: result}, nil
}

func decodeUpdate(raw json.RawMessage) (acp.SessionUpdate, error) {
	if len(raw) == 0 {
		return acp.SessionUpdate{}, fmt.Errorf("session update is required")
	}
	var body sessionUpdateBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return acp.SessionUpdate{}, err
	}
	switch body.Kind {
	case acp.UpdateAgentMessageChunk, acp.UpdateCurrentMode:
		return acp.SessionUpdate{Kind: body.Kind, Content: body.Content, CurrentModeID: body.CurrentModeID}, nil
	default:
		// Unmodeled update kinds round-trip verbatim.
		return acp.SessionUpdate{Kind: body.Kind, Raw: raw}, nil
	}
}

func unmarshalParams(method string, params json.RawMessage, v any) error {
	if len(params) == 0 {
		return invalidPayload(method, errors.New("params are required"))
	}
	if err := json.Unmarshal(params, v); err != nil {
		return invalidPayload(method, err)
	}
	return nil
}

func unmarshalResult(method string, result json.RawMessage, v any) error {
	if len(result) == 0 || string(result) == "null" {
		return invalidPayload(method, errors.New("result body is required"))
	}
	if err := json.Unmarshal(result, v); err != nil {
		return invalidPayload(method, err)
	}
	return nil
}
