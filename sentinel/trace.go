package sentinel

import "github.com/venikman/acp-sentinel/acp"

// Trace is the append-only list of messages processed during one validation
// run. It grows monotonically and is never mutated in place: Append returns a
// new value sharing the already-written prefix, so older snapshots stay valid.
type Trace struct {
	SessionID acp.SessionID
	Messages  []acp.Message
}

// NewTrace returns an empty trace for the given session.
func NewTrace(sid acp.SessionID) Trace {
	return Trace{SessionID: sid}
}

// Append returns the trace extended by one message.
func (t Trace) Append(m acp.Message) Trace {
	return Trace{SessionID: t.SessionID, Messages: append(t.Messages, m)}
}

// Len reports the number of processed messages.
func (t Trace) Len() int { return len(t.Messages) }
