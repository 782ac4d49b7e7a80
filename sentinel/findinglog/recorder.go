package findinglog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/venikman/acp-sentinel/sentinel"
	"github.com/venikman/acp-sentinel/sentinel/stream"
)

// Recorder adapts a Store to stream.Sink so validation events are persisted
// as the engine emits them. It can be used alone or fanned out alongside a
// live sink.
type Recorder struct {
	store Store
}

// NewRecorder returns a Recorder writing to the given store.
func NewRecorder(store Store) (*Recorder, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	return &Recorder{store: store}, nil
}

// Send implements stream.Sink.
func (r *Recorder) Send(ctx context.Context, evt stream.Event) error {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("encode event payload: %w", err)
	}
	rec := &Record{
		RunID:     evt.RunID,
		SessionID: evt.SessionID,
		Kind:      evt.Type,
		Payload:   payload,
		Timestamp: evt.Timestamp,
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if f, ok := evt.Payload.(sentinel.Finding); ok {
		rec.Lane = string(f.Lane)
		rec.Failure = f.Failure
	}
	return r.store.Append(ctx, rec)
}
