// Package findinglog provides a durable, append-only record of validation
// findings and outcomes.
//
// The finding log is the canonical source of truth for run introspection.
// Validation runs append records as findings are produced and callers list
// them using opaque cursors.
package findinglog

import (
	"context"
	"encoding/json"
	"time"
)

type (
	// Record is a single immutable entry appended to the finding log.
	//
	// Store implementations assign the ID when persisting. IDs are opaque,
	// monotonically ordered within a run, and suitable for cursor-based
	// pagination.
	Record struct {
		// ID is the store-assigned opaque identifier for this record.
		ID string
		// RunID is the identifier of the validation run.
		RunID string
		// SessionID is the session the record concerns, when known.
		SessionID string
		// Kind distinguishes finding records from outcome records.
		Kind string
		// Lane is the validation lane for finding records.
		Lane string
		// Failure is the failure code for finding records.
		Failure string
		// Payload is the canonical JSON-encoded finding or outcome.
		Payload json.RawMessage
		// Timestamp is the record time.
		Timestamp time.Time
	}

	// Page is a forward page of records.
	Page struct {
		// Records are ordered oldest-first.
		Records []*Record
		// NextCursor is the cursor to use to fetch the next page.
		// It is empty when there are no further records.
		NextCursor string
	}

	// Store is an append-only record store for validation runs.
	//
	// Implementations must provide stable ordering within a run. Cursor
	// values are store-owned and opaque to callers.
	Store interface {
		// Append stores the record in the finding log.
		//
		// Store implementations assign the record ID and persist the payload
		// verbatim. Append must be durable: failures are surfaced to callers
		// so runs can fail fast when canonical logging is unavailable.
		Append(ctx context.Context, r *Record) error

		// List returns the next forward page of records for the given run ID.
		//
		// Cursor is an opaque value returned by a previous call to List (or
		// empty to start from the beginning). Limit must be greater than
		// zero.
		List(ctx context.Context, runID string, cursor string, limit int) (Page, error)
	}
)

// Record kinds.
const (
	KindFinding = "finding"
	KindOutcome = "outcome"
)
