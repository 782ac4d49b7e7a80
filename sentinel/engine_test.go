package sentinel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/venikman/acp-sentinel/acp"
	"github.com/venikman/acp-sentinel/acp/phase"
	"github.com/venikman/acp-sentinel/sentinel/profile"
	"github.com/venikman/acp-sentinel/sentinel/stream"
	"github.com/venikman/acp-sentinel/telemetry"
)

const sid = acp.SessionID("sess-1")

func handshake(extra ...acp.Message) []acp.Message {
	msgs := []acp.Message{
		&acp.InitializeRequest{ID: acp.NumberID(0), ProtocolVersion: 1},
		&acp.InitializeResult{ID: acp.NumberID(0), ProtocolVersion: 1},
		&acp.SessionNewRequest{ID: acp.NumberID(1), Cwd: "/w"},
		&acp.SessionNewResult{ID: acp.NumberID(1), SessionID: sid},
	}
	return append(msgs, extra...)
}

// collectSink records every event the engine publishes.
type collectSink struct {
	events []stream.Event
}

func (s *collectSink) Send(_ context.Context, evt stream.Event) error {
	s.events = append(s.events, evt)
	return nil
}

// captureLogger records log lines so tests can assert on warnings.
type captureLogger struct {
	telemetry.Logger
	warns []string
}

func (l *captureLogger) Warn(_ context.Context, msg string, _ ...any) {
	l.warns = append(l.warns, msg)
}

// captureMetrics records metric calls.
type captureMetrics struct {
	counters map[string]float64
	timers   []string
}

func (m *captureMetrics) IncCounter(name string, value float64, _ ...string) {
	if m.counters == nil {
		m.counters = make(map[string]float64)
	}
	m.counters[name] += value
}

func (m *captureMetrics) RecordTimer(name string, _ time.Duration, _ ...string) {
	m.timers = append(m.timers, name)
}

func (m *captureMetrics) RecordGauge(string, float64, ...string) {}

// captureTracer records span lifecycle calls.
type captureTracer struct {
	started []string
	span    captureSpan
}

type captureSpan struct {
	ended  *bool
	errs   *[]error
	events *[]string
}

func newCaptureTracer() *captureTracer {
	return &captureTracer{span: captureSpan{
		ended:  new(bool),
		errs:   new([]error),
		events: new([]string),
	}}
}

func (t *captureTracer) Start(ctx context.Context, name string, _ ...trace.SpanStartOption) (context.Context, telemetry.Span) {
	t.started = append(t.started, name)
	return ctx, t.span
}

func (t *captureTracer) Span(context.Context) telemetry.Span { return t.span }

func (s captureSpan) End(...trace.SpanEndOption) { *s.ended = true }
func (s captureSpan) AddEvent(name string, _ ...any) {
	*s.events = append(*s.events, name)
}
func (s captureSpan) SetStatus(codes.Code, string) {}
func (s captureSpan) RecordError(err error, _ ...trace.EventOption) {
	*s.errs = append(*s.errs, err)
}

func TestRunHappyPath(t *testing.T) {
	msgs := handshake(
		&acp.SessionPromptRequest{ID: acp.NumberID(2), SessionID: sid, Prompt: []acp.ContentBlock{acp.TextBlock("hi")}},
		&acp.SessionUpdateNotification{SessionID: sid, Update: acp.AgentMessageChunk(acp.TextBlock("hello"))},
		&acp.SessionPromptResult{ID: acp.NumberID(2), SessionID: sid, StopReason: acp.StopEndTurn},
	)

	rep := Run(context.Background(), sid, phase.Default(), msgs, Options{})

	require.Nil(t, rep.Err)
	assert.IsType(t, phase.Ready{}, rep.FinalPhase)
	assert.Empty(t, rep.Findings)
	assert.Equal(t, len(msgs), rep.Trace.Len())
	assert.NotEmpty(t, rep.RunID)
}

func TestRunStopsOnFirstError(t *testing.T) {
	msgs := []acp.Message{
		&acp.SessionPromptRequest{ID: acp.NumberID(0), SessionID: sid, Prompt: []acp.ContentBlock{acp.TextBlock("oops")}},
		&acp.InitializeRequest{ID: acp.NumberID(1), ProtocolVersion: 1},
	}

	rep := Run(context.Background(), sid, phase.Default(), msgs, Options{StopOnFirstError: true})

	require.NotNil(t, rep.Err)
	assert.Equal(t, phase.CodeUnexpectedMessage, rep.Err.Code)
	assert.Equal(t, 1, rep.Trace.Len(), "fold must stop at the offending message")

	require.Len(t, rep.Findings, 1)
	f := rep.Findings[0]
	assert.Equal(t, LaneProtocol, f.Lane)
	assert.Equal(t, SeverityError, f.Severity)
	assert.Equal(t, string(phase.CodeUnexpectedMessage), f.Failure)
	require.NotNil(t, f.TraceIndex)
	assert.Equal(t, 0, *f.TraceIndex)
}

func TestRunAuditModeKeepsTracing(t *testing.T) {
	msgs := []acp.Message{
		&acp.SessionPromptRequest{ID: acp.NumberID(0), SessionID: sid},
		&acp.InitializeRequest{ID: acp.NumberID(1), ProtocolVersion: 1},
		&acp.InitializeResult{ID: acp.NumberID(1), ProtocolVersion: 1},
	}

	rep := Run(context.Background(), sid, phase.Default(), msgs, Options{})

	require.NotNil(t, rep.Err)
	assert.Equal(t, len(msgs), rep.Trace.Len(), "audit mode still traces every message")

	// No transitions after the error: the phase stays where the error left it.
	assert.IsType(t, phase.AwaitingInitialize{}, rep.FinalPhase)

	protocolFindings := 0
	for _, f := range rep.Findings {
		if f.Lane == LaneProtocol {
			protocolFindings++
		}
	}
	assert.Equal(t, 1, protocolFindings, "only the first error becomes a finding")
}

func TestRunCancelMismatchScenario(t *testing.T) {
	msgs := handshake(
		&acp.SessionPromptRequest{ID: acp.NumberID(2), SessionID: sid},
		&acp.SessionCancelNotification{SessionID: sid},
		&acp.SessionPromptResult{ID: acp.NumberID(2), SessionID: sid, StopReason: acp.StopEndTurn},
	)

	rep := Run(context.Background(), sid, phase.Default(), msgs, Options{})

	require.Nil(t, rep.Err)
	require.Len(t, rep.Findings, 1)
	f := rep.Findings[0]
	assert.Equal(t, LaneSession, f.Lane)
	assert.Equal(t, SeverityError, f.Severity)
	assert.Equal(t, FailureCancelMismatch, f.Failure)
	assert.Equal(t, SubjectPromptTurn, f.Subject.Kind)
}

func TestRunInvalidModeScenario(t *testing.T) {
	msgs := []acp.Message{
		&acp.InitializeRequest{ID: acp.NumberID(0), ProtocolVersion: 1},
		&acp.InitializeResult{ID: acp.NumberID(0), ProtocolVersion: 1},
		&acp.SessionNewRequest{ID: acp.NumberID(1), Cwd: "/w"},
		&acp.SessionNewResult{ID: acp.NumberID(1), SessionID: sid, Modes: &acp.ModeState{
			CurrentModeID:  "ask",
			AvailableModes: []acp.Mode{{ID: "ask"}, {ID: "code"}},
		}},
		&acp.SessionSetModeRequest{ID: acp.NumberID(2), SessionID: sid, ModeID: "bogus"},
	}

	rep := Run(context.Background(), sid, phase.Default(), msgs, Options{})

	require.Nil(t, rep.Err)
	require.Len(t, rep.Findings, 1)
	f := rep.Findings[0]
	assert.Equal(t, LaneSession, f.Lane)
	assert.Equal(t, SeverityError, f.Severity)
	assert.Equal(t, FailureInvalidModeID, f.Failure)
}

func TestRunPublishesFindingsToSink(t *testing.T) {
	sink := &collectSink{}
	msgs := handshake(
		&acp.SessionPromptRequest{ID: acp.NumberID(2), SessionID: sid},
		&acp.SessionCancelNotification{SessionID: sid},
		&acp.SessionPromptResult{ID: acp.NumberID(2), SessionID: sid, StopReason: acp.StopEndTurn},
	)

	rep := Run(context.Background(), sid, phase.Default(), msgs, Options{Sink: sink, RunID: "run-42"})

	assert.Equal(t, "run-42", rep.RunID)
	require.Len(t, sink.events, 1)
	evt := sink.events[0]
	assert.Equal(t, stream.EventFinding, evt.Type)
	assert.Equal(t, "run-42", evt.RunID)
	assert.Equal(t, string(sid), evt.SessionID)
	assert.False(t, evt.Timestamp.IsZero())

	f, ok := evt.Payload.(Finding)
	require.True(t, ok, "payload should carry the finding, got %T", evt.Payload)
	assert.Equal(t, FailureCancelMismatch, f.Failure)
}

func TestRunProtocolFindingSubjectPrefersSession(t *testing.T) {
	// A prompt for a session never announced names that session, not the
	// whole connection.
	msgs := []acp.Message{
		&acp.InitializeRequest{ID: acp.NumberID(0), ProtocolVersion: 1},
		&acp.InitializeResult{ID: acp.NumberID(0), ProtocolVersion: 1},
		&acp.SessionPromptRequest{ID: acp.NumberID(1), SessionID: "ghost"},
	}

	rep := Run(context.Background(), "ghost", phase.Default(), msgs, Options{})

	require.NotNil(t, rep.Err)
	assert.Equal(t, phase.CodeUnknownSession, rep.Err.Code)
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, SubjectSession, rep.Findings[0].Subject.Kind)
	assert.Equal(t, acp.SessionID("ghost"), rep.Findings[0].SessionID)
}

func TestRunRecordsTelemetry(t *testing.T) {
	metrics := &captureMetrics{}
	tracer := newCaptureTracer()
	msgs := handshake(
		&acp.SessionPromptRequest{ID: acp.NumberID(2), SessionID: sid},
		&acp.SessionCancelNotification{SessionID: sid},
		&acp.SessionPromptResult{ID: acp.NumberID(2), SessionID: sid, StopReason: acp.StopEndTurn},
	)

	rep := Run(context.Background(), sid, phase.Default(), msgs, Options{
		Metrics: metrics,
		Tracer:  tracer,
	})

	require.Len(t, rep.Findings, 1)
	assert.Equal(t, []string{"sentinel.run"}, tracer.started)
	assert.True(t, *tracer.span.ended, "run span must end")
	assert.Empty(t, *tracer.span.errs, "no protocol error on this trace")
	assert.Equal(t, float64(1), metrics.counters["validation.findings"])
	assert.Equal(t, []string{"validation.run.duration"}, metrics.timers)
}

func TestRunRecordsProtocolErrorOnSpan(t *testing.T) {
	tracer := newCaptureTracer()
	msgs := []acp.Message{
		&acp.SessionPromptRequest{ID: acp.NumberID(0), SessionID: sid},
	}

	rep := Run(context.Background(), sid, phase.Default(), msgs, Options{Tracer: tracer})

	require.NotNil(t, rep.Err)
	require.Len(t, *tracer.span.errs, 1)
	assert.ErrorContains(t, (*tracer.span.errs)[0], string(phase.CodeUnexpectedMessage))
}

func TestRunWarnsOnMisalignedFrames(t *testing.T) {
	p, err := profile.Compile(profile.Config{MaxFrameBytes: 1})
	require.NoError(t, err)

	logger := &captureLogger{Logger: telemetry.NewNoopLogger()}
	msgs := handshake()

	rep := Run(context.Background(), sid, phase.Default(), msgs, Options{
		Profile: p,
		Frames:  [][]byte{[]byte(`{"jsonrpc":"2.0"}`)},
		Logger:  logger,
	})

	require.Nil(t, rep.Err)
	assert.Empty(t, rep.Findings, "misaligned frames must skip every frame check")
	require.NotEmpty(t, logger.warns)
	assert.Contains(t, logger.warns[0], "frame count")
}
