package findinglog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venikman/acp-sentinel/sentinel"
	"github.com/venikman/acp-sentinel/sentinel/stream"
)

type captureStore struct {
	records []*Record
	fail    error
}

func (s *captureStore) Append(_ context.Context, r *Record) error {
	if s.fail != nil {
		return s.fail
	}
	s.records = append(s.records, r)
	return nil
}

func (s *captureStore) List(context.Context, string, string, int) (Page, error) {
	return Page{}, nil
}

func TestNewRecorderRequiresStore(t *testing.T) {
	_, err := NewRecorder(nil)
	require.Error(t, err)
}

func TestRecorderPersistsFindingEvents(t *testing.T) {
	store := &captureStore{}
	rec, err := NewRecorder(store)
	require.NoError(t, err)

	finding := sentinel.Finding{
		Lane:     sentinel.LaneSession,
		Severity: sentinel.SeverityError,
		Subject:  sentinel.SessionSubject("s1"),
		Failure:  sentinel.FailureCancelMismatch,
	}
	evt := stream.Event{
		Type:      stream.EventFinding,
		RunID:     "run-1",
		SessionID: "s1",
		Payload:   finding,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, rec.Send(context.Background(), evt))

	require.Len(t, store.records, 1)
	r := store.records[0]
	assert.Equal(t, "run-1", r.RunID)
	assert.Equal(t, KindFinding, r.Kind)
	assert.Equal(t, "session", r.Lane)
	assert.Equal(t, sentinel.FailureCancelMismatch, r.Failure)
	assert.Equal(t, evt.Timestamp, r.Timestamp)

	var decoded sentinel.Finding
	require.NoError(t, json.Unmarshal(r.Payload, &decoded))
	assert.Equal(t, finding.Failure, decoded.Failure)
}

func TestRecorderDefaultsTimestamp(t *testing.T) {
	store := &captureStore{}
	rec, err := NewRecorder(store)
	require.NoError(t, err)

	require.NoError(t, rec.Send(context.Background(), stream.Event{
		Type:    stream.EventOutcome,
		RunID:   "run-2",
		Payload: map[string]string{"kind": "completed"},
	}))
	require.Len(t, store.records, 1)
	assert.False(t, store.records[0].Timestamp.IsZero())
	assert.Empty(t, store.records[0].Lane, "non-finding payloads carry no lane")
}

func TestRecorderSurfacesStoreFailures(t *testing.T) {
	store := &captureStore{fail: errors.New("disk full")}
	rec, err := NewRecorder(store)
	require.NoError(t, err)

	err = rec.Send(context.Background(), stream.Event{Type: stream.EventFinding, RunID: "run-3"})
	require.Error(t, err)
}
