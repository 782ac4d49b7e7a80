package codec

import (
	"fmt"
	"strings"
	"testing"

	"github.com/venikman/acp-sentinel/acp"
)

var benchFrames = struct {
	initialize    []byte
	initializeRes []byte
	sessionNew    []byte
	sessionNewRes []byte
	prompt        []byte
	promptRes     []byte
	updateChunk   []byte
}{
	initialize: []byte(`{"jsonrpc":"2.0","id":0,"method":"initialize","params":{` +
		`"protocolVersion":1,` +
		`"clientCapabilities":{"fs":{"readTextFile":true,"writeTextFile":true}},` +
		`"clientInfo":{"name":"bench-client","version":"0.1.0"}}}`),
	initializeRes: []byte(`{"jsonrpc":"2.0","id":0,"result":{` +
		`"protocolVersion":1,"agentCapabilities":{"loadSession":true},` +
		`"agentInfo":{"name":"bench-agent","version":"0.1.0"}}}`),
	sessionNew:    []byte(`{"jsonrpc":"2.0","id":1,"method":"session/new","params":{"cwd":"/tmp/bench","mcpServers":[]}}`),
	sessionNewRes: []byte(`{"jsonrpc":"2.0","id":1,"result":{"sessionId":"bench-session"}}`),
	prompt: []byte(`{"jsonrpc":"2.0","id":2,"method":"session/prompt","params":{` +
		`"sessionId":"bench-session","prompt":[{"type":"text","text":"Say exactly: ping"}]}}`),
	promptRes: []byte(`{"jsonrpc":"2.0","id":2,"result":{"stopReason":"end_turn"}}`),
	updateChunk: fmt.Appendf(nil, `{"jsonrpc":"2.0","method":"session/update","params":{`+
		`"sessionId":"bench-session","update":{"sessionUpdate":"agent_message_chunk",`+
		`"content":{"type":"text","text":%q}}}}`, strings.Repeat("lorem ipsum dolor sit amet ", 128)),
}

// benchHandshakeState returns a correlation table with the prompt request in
// flight, the state a live connection is in while streaming.
func benchHandshakeState(b *testing.B) State {
	b.Helper()
	state := NewState()
	var err error
	for _, step := range []struct {
		dir acp.Direction
		raw []byte
	}{
		{acp.ClientToAgent, benchFrames.initialize},
		{acp.AgentToClient, benchFrames.initializeRes},
		{acp.ClientToAgent, benchFrames.sessionNew},
		{acp.AgentToClient, benchFrames.sessionNewRes},
		{acp.ClientToAgent, benchFrames.prompt},
	} {
		if state, _, err = Decode(step.dir, state, step.raw); err != nil {
			b.Fatal(err)
		}
	}
	return state
}

func BenchmarkDecodeHandshake(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		state := NewState()
		var err error
		if state, _, err = Decode(acp.ClientToAgent, state, benchFrames.initialize); err != nil {
			b.Fatal(err)
		}
		if _, _, err = Decode(acp.AgentToClient, state, benchFrames.initializeRes); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodePromptTurn(b *testing.B) {
	base := benchHandshakeState(b)
	b.ReportAllocs()
	for b.Loop() {
		if _, _, err := Decode(acp.AgentToClient, base, benchFrames.promptRes); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeUpdateChunk(b *testing.B) {
	state := benchHandshakeState(b)
	b.SetBytes(int64(len(benchFrames.updateChunk)))
	b.ReportAllocs()
	for b.Loop() {
		if _, _, err := Decode(acp.AgentToClient, state, benchFrames.updateChunk); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeDecodePrompt(b *testing.B) {
	msg := &acp.SessionPromptRequest{
		ID:        acp.NumberID(2),
		SessionID: "bench-session",
		Prompt:    []acp.ContentBlock{acp.TextBlock("Say exactly: ping")},
	}
	b.ReportAllocs()
	for b.Loop() {
		raw, err := Encode(msg)
		if err != nil {
			b.Fatal(err)
		}
		if _, _, err := Decode(acp.ClientToAgent, NewState(), raw); err != nil {
			b.Fatal(err)
		}
	}
}
