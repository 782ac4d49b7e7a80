// Package pulse exposes a stream.Sink implementation that publishes
// validation events to goa.design/pulse streams. Services build a Redis
// client, pass it to the Pulse client, and hand the resulting sink to the
// validation engine.
package pulse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	clientspulse "github.com/venikman/acp-sentinel/features/stream/pulse/clients/pulse"
	"github.com/venikman/acp-sentinel/sentinel/stream"
)

type (
	// Options configures the Pulse sink.
	Options struct {
		// Client is the Pulse client used to publish events. Required.
		Client clientspulse.Client
		// StreamID derives the target Pulse stream from an event. Defaults
		// to `run/<RunID>`.
		StreamID func(stream.Event) (string, error)
		// MarshalEnvelope overrides the envelope serialization (primarily
		// for tests).
		MarshalEnvelope func(envelope) ([]byte, error)
	}

	// Sink publishes validation Event values into Pulse streams. Safe for
	// concurrent Send calls.
	Sink struct {
		client clientspulse.Client
		opts   sinkOptions
	}

	sinkOptions struct {
		streamID        func(stream.Event) (string, error)
		marshalEnvelope func(envelope) ([]byte, error)
	}

	// envelope wraps validation events for transmission over Pulse streams.
	envelope struct {
		// Type identifies the event kind ("finding" or "outcome").
		Type string `json:"type"`
		// RunID links the event to a validation run.
		RunID string `json:"run_id"`
		// SessionID is the session the event concerns, when known.
		SessionID string `json:"session_id,omitempty"`
		// Timestamp records when the event was published (UTC).
		Timestamp time.Time `json:"timestamp"`
		// Payload contains the event-specific data, if any.
		Payload any `json:"payload,omitempty"`
	}
)

// NewSink constructs a Pulse-backed event sink. The Client field in opts is
// required; StreamID and MarshalEnvelope default to the built-in
// implementations.
func NewSink(opts Options) (*Sink, error) {
	if opts.Client == nil {
		return nil, errors.New("pulse client is required")
	}
	cfg := sinkOptions{
		streamID:        defaultStreamID,
		marshalEnvelope: defaultMarshal,
	}
	if opts.StreamID != nil {
		cfg.streamID = opts.StreamID
	}
	if opts.MarshalEnvelope != nil {
		cfg.marshalEnvelope = opts.MarshalEnvelope
	}
	return &Sink{
		client: opts.Client,
		opts:   cfg,
	}, nil
}

// Send publishes the event to the derived Pulse stream.
func (s *Sink) Send(ctx context.Context, event stream.Event) error {
	streamID, err := s.opts.streamID(event)
	if err != nil {
		return err
	}
	handle, err := s.client.Stream(streamID)
	if err != nil {
		return err
	}
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	env := envelope{
		Type:      event.Type,
		RunID:     event.RunID,
		SessionID: event.SessionID,
		Timestamp: ts,
		Payload:   event.Payload,
	}
	payload, err := s.opts.marshalEnvelope(env)
	if err != nil {
		return err
	}
	if _, err := handle.Add(ctx, env.Type, payload); err != nil {
		return err
	}
	return nil
}

// Close releases resources owned by the sink.
func (s *Sink) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func defaultStreamID(event stream.Event) (string, error) {
	if event.RunID == "" {
		return "", errors.New("stream event missing run id")
	}
	return fmt.Sprintf("run/%s", event.RunID), nil
}

func defaultMarshal(env envelope) ([]byte, error) {
	return json.Marshal(env)
}
