package codec

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venikman/acp-sentinel/acp"
)

func TestDecodeInitializeHandshake(t *testing.T) {
	state := NewState()

	frame := []byte(`{"jsonrpc":"2.0","id":0,"method":"initialize","params":{` +
		`"protocolVersion":1,` +
		`"clientCapabilities":{"fs":{"readTextFile":true,"writeTextFile":true}},` +
		`"clientInfo":{"name":"bench-client","version":"0.1.0"}}}`)
	state, msg, err := Decode(acp.ClientToAgent, state, frame)
	require.NoError(t, err)

	req, ok := msg.(*acp.InitializeRequest)
	require.True(t, ok, "expected *acp.InitializeRequest, got %T", msg)
	assert.Equal(t, 1, req.ProtocolVersion)
	assert.True(t, req.ClientCapabilities.Fs.ReadTextFile)
	require.NotNil(t, req.ClientInfo)
	assert.Equal(t, "bench-client", req.ClientInfo.Name)
	assert.Equal(t, 1, state.Pending())
	assert.True(t, state.Awaiting(acp.ClientToAgent, acp.NumberID(0)))

	result := []byte(`{"jsonrpc":"2.0","id":0,"result":{` +
		`"protocolVersion":1,"agentCapabilities":{"loadSession":true},` +
		`"agentInfo":{"name":"bench-agent","version":"0.1.0"}}}`)
	state, msg, err = Decode(acp.AgentToClient, state, result)
	require.NoError(t, err)

	res, ok := msg.(*acp.InitializeResult)
	require.True(t, ok, "expected *acp.InitializeResult, got %T", msg)
	assert.Equal(t, 1, res.ProtocolVersion)
	assert.True(t, res.AgentCapabilities.LoadSession)
	assert.Equal(t, 0, state.Pending(), "answered request must leave the table")
}

func TestDecodeResponseWithoutRequest(t *testing.T) {
	state := NewState()
	_, msg, err := Decode(acp.AgentToClient, state, []byte(`{"jsonrpc":"2.0","id":7,"result":{}}`))
	require.Error(t, err)
	assert.Nil(t, msg)

	var derr *DecodeError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, ErrUnmatchedResponse, derr.Kind)
	assert.Equal(t, acp.NumberID(7), derr.ID)
	assert.Equal(t, 0, state.Pending())
}

func TestDecodeDirectionMismatch(t *testing.T) {
	state := NewState()
	frame := []byte(`{"jsonrpc":"2.0","id":1,"method":"session/prompt","params":{"sessionId":"s1","prompt":[]}}`)

	_, _, err := Decode(acp.AgentToClient, state, frame)
	var derr *DecodeError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, ErrDirectionMismatch, derr.Kind)
	assert.Equal(t, acp.ClientToAgent, derr.Expected)
	assert.Equal(t, 0, state.Pending(), "failed decode must not register the request")
}

func TestDecodeMalformedFrame(t *testing.T) {
	state := NewState()
	for name, frame := range map[string]string{
		"not json":            `{"jsonrpc":"2.0"`,
		"neither req nor res": `{"jsonrpc":"2.0","id":1}`,
	} {
		_, _, err := Decode(acp.ClientToAgent, state, []byte(frame))
		var derr *DecodeError
		require.True(t, errors.As(err, &derr), "%s: expected DecodeError, got %v", name, err)
		assert.Equal(t, ErrMalformedFrame, derr.Kind, name)
	}
}

func TestDecodeErrorResponseCarriesRequestContext(t *testing.T) {
	state := NewState()

	prompt := []byte(`{"jsonrpc":"2.0","id":3,"method":"session/prompt","params":{"sessionId":"sess-9","prompt":[{"type":"text","text":"go"}]}}`)
	state, _, err := Decode(acp.ClientToAgent, state, prompt)
	require.NoError(t, err)

	fail := []byte(`{"jsonrpc":"2.0","id":3,"error":{"code":-32603,"message":"model overloaded"}}`)
	state, msg, err := Decode(acp.AgentToClient, state, fail)
	require.NoError(t, err)

	er, ok := msg.(*acp.ErrorResponse)
	require.True(t, ok, "expected *acp.ErrorResponse, got %T", msg)
	assert.Equal(t, acp.MethodSessionPrompt, er.ReqMethod)
	assert.Equal(t, acp.SessionID("sess-9"), er.SessionID)
	assert.Equal(t, -32603, er.Err.Code)
	assert.Equal(t, 0, state.Pending())
}

func TestDecodeFailedResultLeavesStateIntact(t *testing.T) {
	state := NewState()

	prompt := []byte(`{"jsonrpc":"2.0","id":"r-1","method":"session/prompt","params":{"sessionId":"s","prompt":[]}}`)
	state, _, err := Decode(acp.ClientToAgent, state, prompt)
	require.NoError(t, err)
	require.Equal(t, 1, state.Pending())

	bad := []byte(`{"jsonrpc":"2.0","id":"r-1","result":{"stopReason":42}}`)
	next, msg, err := Decode(acp.AgentToClient, state, bad)
	require.Error(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, 1, next.Pending(), "request must stay pending after a failed decode")

	good := []byte(`{"jsonrpc":"2.0","id":"r-1","result":{"stopReason":"end_turn"}}`)
	next, msg, err = Decode(acp.AgentToClient, next, good)
	require.NoError(t, err)
	res := msg.(*acp.SessionPromptResult)
	assert.Equal(t, acp.StopEndTurn, res.StopReason)
	assert.Equal(t, 0, next.Pending())
}

func TestDecodeNotificationsAreNotCorrelated(t *testing.T) {
	state := NewState()

	cancel := []byte(`{"jsonrpc":"2.0","method":"session/cancel","params":{"sessionId":"s1"}}`)
	state, msg, err := Decode(acp.ClientToAgent, state, cancel)
	require.NoError(t, err)
	_, ok := msg.(*acp.SessionCancelNotification)
	require.True(t, ok)
	assert.Equal(t, 0, state.Pending())

	update := []byte(`{"jsonrpc":"2.0","method":"session/update","params":{"sessionId":"s1","update":{"sessionUpdate":"agent_message_chunk","content":{"type":"text","text":"hi"}}}}`)
	state, msg, err = Decode(acp.AgentToClient, state, update)
	require.NoError(t, err)
	upd := msg.(*acp.SessionUpdateNotification)
	assert.Equal(t, acp.UpdateAgentMessageChunk, upd.Update.Kind)
	require.NotNil(t, upd.Update.Content)
	assert.Equal(t, "hi", upd.Update.Content.Text)
	assert.Equal(t, 0, state.Pending())
}

func TestDecodeExtensionMethodIsLossless(t *testing.T) {
	state := NewState()
	params := `{"sessionId":"s1","vendor":{"nested":[1,2,3]}}`

	frame := []byte(`{"jsonrpc":"2.0","id":10,"method":"_custom/probe","params":` + params + `}`)
	state, msg, err := Decode(acp.ClientToAgent, state, frame)
	require.NoError(t, err)

	ext, ok := msg.(*acp.ExtRequest)
	require.True(t, ok, "expected *acp.ExtRequest, got %T", msg)
	assert.Equal(t, "_custom/probe", ext.ExtMethod)
	assert.JSONEq(t, params, string(ext.Params))

	reencoded, err := Encode(ext)
	require.NoError(t, err)
	var got, want map[string]any
	require.NoError(t, json.Unmarshal(reencoded, &got))
	require.NoError(t, json.Unmarshal(frame, &want))
	assert.Equal(t, want, got)

	// The response is typed through the correlation table even for
	// extension methods.
	res := []byte(`{"jsonrpc":"2.0","id":10,"result":{"ok":true}}`)
	state, msg, err = Decode(acp.AgentToClient, state, res)
	require.NoError(t, err)
	extRes, ok := msg.(*acp.ExtResponse)
	require.True(t, ok, "expected *acp.ExtResponse, got %T", msg)
	assert.Equal(t, "_custom/probe", extRes.ExtMethod)
	assert.JSONEq(t, `{"ok":true}`, string(extRes.Result))
	assert.Equal(t, 0, state.Pending())
}

func TestDecodeUnmodeledUpdateKindRoundTrips(t *testing.T) {
	state := NewState()
	update := `{"sessionUpdate":"tool_call","toolCallId":"t1","status":"pending"}`
	frame := []byte(`{"jsonrpc":"2.0","method":"session/update","params":{"sessionId":"s1","update":` + update + `}}`)

	_, msg, err := Decode(acp.AgentToClient, state, frame)
	require.NoError(t, err)
	upd := msg.(*acp.SessionUpdateNotification)
	assert.Equal(t, "tool_call", upd.Update.Kind)
	assert.JSONEq(t, update, string(upd.Update.Raw))

	reencoded, err := Encode(upd)
	require.NoError(t, err)
	var env struct {
		Params struct {
			Update json.RawMessage `json:"update"`
		} `json:"params"`
	}
	require.NoError(t, json.Unmarshal(reencoded, &env))
	assert.JSONEq(t, update, string(env.Params.Update))
}

func TestRequestIDDistinguishesStringAndNumberTokens(t *testing.T) {
	state := NewState()

	s1 := []byte(`{"jsonrpc":"2.0","id":"1","method":"fs/read_text_file","params":{"sessionId":"s","path":"/tmp/a"}}`)
	state, _, err := Decode(acp.AgentToClient, state, s1)
	require.NoError(t, err)

	n1 := []byte(`{"jsonrpc":"2.0","id":1,"method":"terminal/create","params":{"sessionId":"s","command":"ls"}}`)
	state, _, err = Decode(acp.AgentToClient, state, n1)
	require.NoError(t, err)
	require.Equal(t, 2, state.Pending(), `"1" and 1 are distinct ids`)

	res := []byte(`{"jsonrpc":"2.0","id":1,"result":{"terminalId":"term-0"}}`)
	state, msg, err := Decode(acp.ClientToAgent, state, res)
	require.NoError(t, err)
	_, ok := msg.(*acp.TerminalCreateResult)
	require.True(t, ok, "numeric id must resolve the terminal/create request, got %T", msg)
	assert.True(t, state.Awaiting(acp.AgentToClient, acp.StringID("1")))
}

func TestDecodeSessionLoadTracksRequestSession(t *testing.T) {
	state := NewState()

	load := []byte(`{"jsonrpc":"2.0","id":2,"method":"session/load","params":{"sessionId":"sess-load","cwd":"/w"}}`)
	state, msg, err := Decode(acp.ClientToAgent, state, load)
	require.NoError(t, err)
	req := msg.(*acp.SessionLoadRequest)
	assert.Equal(t, acp.SessionID("sess-load"), req.SessionID)

	// Load results are frequently null; the session id comes from the
	// correlated request.
	res := []byte(`{"jsonrpc":"2.0","id":2,"result":null}`)
	_, msg, err = Decode(acp.AgentToClient, state, res)
	require.NoError(t, err)
	lr := msg.(*acp.SessionLoadResult)
	assert.Equal(t, acp.SessionID("sess-load"), lr.SessionID)
	assert.Nil(t, lr.Modes)
}
