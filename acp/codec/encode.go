package codec

import (
	"encoding/json"
	"fmt"

	"github.com/venikman/acp-sentinel/acp"
)

// Encode serializes a typed message into its JSON-RPC frame. It is the
// structural inverse of Decode: for every constructible message m with
// direction d, Decode(d, s, Encode(m)) reproduces m, given a correlation state
// s that has the matching request pending when m is a response.
func Encode(m acp.Message) ([]byte, error) {
	env, err := buildEnvelope(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func buildEnvelope(m acp.Message) (envelope, error) {
	switch msg := m.(type) {
	case *acp.InitializeRequest:
		return request(msg.ID, msg.Method(), initializeParams{
			ProtocolVersion:    msg.ProtocolVersion,
			ClientCapabilities: msg.ClientCapabilities,
			ClientInfo:         msg.ClientInfo,
		})
	case *acp.AuthenticateRequest:
		return request(msg.ID, msg.Method(), authenticateParams{MethodID: msg.MethodID})
	case *acp.SessionNewRequest:
		return request(msg.ID, msg.Method(), sessionNewParams{Cwd: msg.Cwd, McpServers: msg.McpServers})
	case *acp.SessionLoadRequest:
		return request(msg.ID, msg.Method(), sessionLoadParams{
			SessionID:  string(msg.SessionID),
			Cwd:        msg.Cwd,
			McpServers: msg.McpServers,
		})
	case *acp.SessionPromptRequest:
		return request(msg.ID, msg.Method(), sessionPromptParams{
			SessionID: string(msg.SessionID),
			Prompt:    msg.Prompt,
		})
	case *acp.SessionCancelNotification:
		return notification(msg.Method(), sessionCancelParams{SessionID: string(msg.SessionID)})
	case *acp.SessionSetModeRequest:
		return request(msg.ID, msg.Method(), sessionSetModeParams{
			SessionID: string(msg.SessionID),
			ModeID:    msg.ModeID,
		})
	case *acp.SessionUpdateNotification:
		update, err := encodeUpdate(msg.Update)
		if err != nil {
			return envelope{}, err
		}
		return notification(msg.Method(), sessionUpdateParams{
			SessionID: string(msg.SessionID),
			Update:    update,
		})

	case *acp.FsReadRequest:
		return request(msg.ID, msg.Method(), fsReadParams{
			SessionID: string(msg.SessionID),
			Path:      msg.Path,
			Line:      msg.Line,
			Limit:     msg.Limit,
		})
	case *acp.FsWriteRequest:
		return request(msg.ID, msg.Method(), fsWriteParams{
			SessionID: string(msg.SessionID),
			Path:      msg.Path,
			Content:   msg.Content,
		})
	case *acp.PermissionRequest:
		return request(msg.ID, msg.Method(), permissionParams{
			SessionID: string(msg.SessionID),
			ToolCall:  msg.ToolCall,
			Options:   msg.Options,
		})
	case *acp.TerminalCreateRequest:
		return request(msg.ID, msg.Method(), terminalCreateParams{
			SessionID: string(msg.SessionID),
			Command:   msg.Command,
			Args:      msg.Args,
			Cwd:       msg.Cwd,
		})
	case *acp.TerminalOutputRequest:
		return request(msg.ID, msg.Method(), terminalIDParams{SessionID: string(msg.SessionID), TerminalID: msg.TerminalID})
	case *acp.TerminalWaitRequest:
		return request(msg.ID, msg.Method(), terminalIDParams{SessionID: string(msg.SessionID), TerminalID: msg.TerminalID})
	case *acp.TerminalKillRequest:
		return request(msg.ID, msg.Method(), terminalIDParams{SessionID: string(msg.SessionID), TerminalID: msg.TerminalID})
	case *acp.TerminalReleaseRequest:
		return request(msg.ID, msg.Method(), terminalIDParams{SessionID: string(msg.SessionID), TerminalID: msg.TerminalID})

	case *acp.InitializeResult:
		return response(msg.ID, initializeResultBody{
			ProtocolVersion:   msg.ProtocolVersion,
			AgentCapabilities: msg.AgentCapabilities,
			AuthMethods:       msg.AuthMethods,
			AgentInfo:         msg.AgentInfo,
		})
	case *acp.AuthenticateResult:
		return response(msg.ID, nil)
	case *acp.SessionNewResult:
		return response(msg.ID, sessionNewResultBody{SessionID: string(msg.SessionID), Modes: msg.Modes})
	case *acp.SessionLoadResult:
		if msg.Modes == nil {
			return response(msg.ID, nil)
		}
		return response(msg.ID, sessionLoadResultBody{Modes: msg.Modes})
	case *acp.SessionPromptResult:
		return response(msg.ID, sessionPromptResultBody{StopReason: string(msg.StopReason)})
	case *acp.SessionSetModeResult:
		return response(msg.ID, nil)
	case *acp.FsReadResult:
		return response(msg.ID, fsReadResultBody{Content: msg.Content})
	case *acp.FsWriteResult:
		return response(msg.ID, nil)
	case *acp.PermissionResult:
		return response(msg.ID, permissionResultBody{Outcome: msg.Outcome})
	case *acp.TerminalCreateResult:
		return response(msg.ID, terminalCreateResultBody{TerminalID: msg.TerminalID})
	case *acp.TerminalOutputResult:
		return response(msg.ID, terminalOutputResultBody{
			Output:     msg.Output,
			Truncated:  msg.Truncated,
			ExitStatus: msg.ExitStatus,
		})
	case *acp.TerminalWaitResult:
		return response(msg.ID, msg.ExitStatus)
	case *acp.TerminalKillResult:
		return response(msg.ID, nil)
	case *acp.TerminalReleaseResult:
		return response(msg.ID, nil)

	case *acp.ErrorResponse:
		id, err := json.Marshal(msg.ID)
		if err != nil {
			return envelope{}, err
		}
		rpcErr := msg.Err
		return envelope{JSONRPC: jsonrpcVersion, ID: id, Error: &rpcErr}, nil

	case *acp.ExtRequest:
		env, err := request(msg.ID, msg.ExtMethod, nil)
		if err != nil {
			return envelope{}, err
		}
		env.Params = msg.Params
		return env, nil
	case *acp.ExtNotification:
		env, err := notification(msg.ExtMethod, nil)
		if err != nil {
			return envelope{}, err
		}
		env.Params = msg.Params
		return env, nil
	case *acp.ExtResponse:
		env, err := response(msg.ID, nil)
		if err != nil {
			return envelope{}, err
		}
		if msg.Result != nil {
			env.Result = msg.Result
		}
		return env, nil
	}
	return envelope{}, fmt.Errorf("codec: cannot encode message type %T", m)
}

func request(id acp.RequestID, method string, params any) (envelope, error) {
	env, err := notification(method, params)
	if err != nil {
		return envelope{}, err
	}
	if !id.IsZero() {
		raw, err := json.Marshal(id)
		if err != nil {
			return envelope{}, err
		}
		env.ID = raw
	}
	return env, nil
}

func notification(method string, params any) (envelope, error) {
	env := envelope{JSONRPC: jsonrpcVersion, Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return envelope{}, err
		}
		env.Params = raw
	}
	return env, nil
}

func response(id acp.RequestID, result any) (envelope, error) {
	rawID, err := json.Marshal(id)
	if err != nil {
		return envelope{}, err
	}
	body := json.RawMessage("null")
	if result != nil {
		raw, err := json.Marshal(result)
		if err != nil {
			return envelope{}, err
		}
		body = raw
	}
	return envelope{JSONRPC: jsonrpcVersion, ID: rawID, Result: body}, nil
}

func encodeUpdate(u acp.SessionUpdate) (json.RawMessage, error) {
	if u.Raw != nil {
		return u.Raw, nil
	}
	return json.Marshal(sessionUpdateBody{
		Kind:          u.Kind,
		Content:       u.Content,
		CurrentModeID: u.CurrentModeID,
	})
}
