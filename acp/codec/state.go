package codec

import "github.com/venikman/acp-sentinel/acp"

type (
	// State is the codec's correlation table: one entry per request that is
	// still awaiting a response, keyed by the request's direction and id.
	// JSON-RPC responses carry neither method nor session, so the table is the
	// only way to interpret them.
	//
	// State is an immutable value. Decode returns the successor state; callers
	// thread it explicitly, one call in, one call out. Concurrent decodes on
	// one connection must be serialized by the host so each call observes the
	// state produced by the previous one.
	State struct {
		pending map[pendingKey]pendingEntry
	}

	pendingKey struct {
		dir acp.Direction
		id  acp.RequestID
	}

	// pendingEntry remembers what is needed to type the eventual response.
	pendingEntry struct {
		method  string
		session acp.SessionID
	}
)

// NewState returns an empty correlation table.
func NewState() State {
	return State{}
}

// Pending reports the number of requests awaiting a response.
func (s State) Pending() int {
	return len(s.pending)
}

// Awaiting reports whether a request with the given direction and id is still
// unanswered.
func (s State) Awaiting(dir acp.Direction, id acp.RequestID) bool {
	_, ok := s.pending[pendingKey{dir: dir, id: id}]
	return ok
}

func (s State) with(key pendingKey, entry pendingEntry) State {
	next := make(map[pendingKey]pendingEntry, len(s.pending)+1)
	for k, v := range s.pending {
		next[k] = v
	}
	next[key] = entry
	return State{pending: next}
}

func (s State) without(key pendingKey) State {
	next := make(map[pendingKey]pendingEntry, len(s.pending))
	for k, v := range s.pending {
		if k != key {
			next[k] = v
		}
	}
	return State{pending: next}
}

func (s State) lookup(key pendingKey) (pendingEntry, bool) {
	entry, ok := s.pending[key]
	return entry, ok
}
