// Package stream defines the event model used to publish validation findings
// and outcomes to external consumers (monitoring UIs, recorders). Sinks are
// optional: the engine works identically with no sink attached.
package stream

import (
	"context"
	"time"
)

type (
	// Event is one published validation observation.
	Event struct {
		// Type identifies the event kind ("finding" or "outcome").
		Type string
		// RunID links the event to one validation run.
		RunID string
		// SessionID is the session the event concerns, when known.
		SessionID string
		// Payload carries the event-specific data (a Finding or an Outcome).
		Payload any
		// Timestamp records when the event was produced (UTC).
		Timestamp time.Time
	}

	// Sink receives events as the engine emits them. Implementations must be
	// safe for sequential use within one run; the engine never calls Send
	// concurrently for a single run.
	Sink interface {
		Send(ctx context.Context, event Event) error
	}
)

// Event kinds.
const (
	EventFinding = "finding"
	EventOutcome = "outcome"
)
