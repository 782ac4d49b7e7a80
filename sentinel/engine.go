package sentinel

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/venikman/acp-sentinel/acp"
	"github.com/venikman/acp-sentinel/acp/phase"
	"github.com/venikman/acp-sentinel/sentinel/profile"
	"github.com/venikman/acp-sentinel/sentinel/stream"
	"github.com/venikman/acp-sentinel/telemetry"
)

type (
	// Options tunes one validation run. The zero value is usable: no
	// profile, no sink, no logging, full-trace audit mode.
	Options struct {
		// StopOnFirstError truncates the run at the first protocol error
		// instead of auditing the remainder of the trace.
		StopOnFirstError bool
		// Profile enables transport and implementation lane checks.
		Profile *profile.Profile
		// Frames carries the raw wire bytes aligned index-for-index with the
		// messages, for frame-level checks. Leave nil when only decoded
		// messages are available; size checks are then skipped. A non-empty
		// Frames whose length differs from the messages is a caller bug: the
		// run logs a warning and skips every frame check.
		Frames [][]byte
		// Sink receives findings as they are produced.
		Sink stream.Sink
		// Logger receives a structured line per finding.
		Logger telemetry.Logger
		// Metrics records finding counters and run duration.
		Metrics telemetry.Metrics
		// Tracer wraps the run in a span.
		Tracer telemetry.Tracer
		// RunID identifies the run in emitted events and stored records.
		// Generated when empty.
		RunID string
	}

	// Report is the complete result of one validation run.
	Report struct {
		RunID      string
		SessionID  acp.SessionID
		FinalPhase phase.Phase
		// Err is the protocol error that halted the fold, if any.
		Err *phase.ProtocolError
		// Trace holds every message the run observed, in order.
		Trace    Trace
		Findings []Finding
	}
)

// Run validates an ordered message trace for one session. Each message is
// appended to the trace before the phase machine sees it, so the offending
// message of a protocol error is always the last trace entry at that point.
// After the fold (or after the first error, in audit mode: later messages
// are still traced and frame-checked but drive no transitions), whole-trace
// session checks run in a fixed order: cancel consistency, turn concurrency,
// mode validity.
func Run(ctx context.Context, sid acp.SessionID, spc phase.Spec, msgs []acp.Message, opts Options) Report {
	if opts.Logger == nil {
		opts.Logger = telemetry.NewNoopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = telemetry.NewNoopMetrics()
	}
	if opts.Tracer == nil {
		opts.Tracer = telemetry.NewNoopTracer()
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	start := time.Now()
	ctx, span := opts.Tracer.Start(ctx, "sentinel.run")
	defer span.End()

	rep := Report{
		RunID:      opts.RunID,
		SessionID:  sid,
		FinalPhase: spc.Initial,
		Trace:      NewTrace(sid),
	}

	emit := func(f Finding) {
		rep.Findings = append(rep.Findings, f)
		opts.Metrics.IncCounter("validation.findings", 1,
			"lane", string(f.Lane), "severity", string(f.Severity))
		publishFinding(ctx, opts, sid, f)
	}

	if len(opts.Frames) > 0 && len(opts.Frames) != len(msgs) {
		opts.Logger.Warn(ctx, "frame count does not match message count, skipping frame checks",
			"run_id", opts.RunID, "frames", len(opts.Frames), "messages", len(msgs))
	}

	for i, m := range msgs {
		rep.Trace = rep.Trace.Append(m)

		var raw []byte
		if len(opts.Frames) == len(msgs) {
			raw = opts.Frames[i]
		}
		for _, f := range CheckFrame(opts.Profile, i, raw, m) {
			emit(f)
		}

		if rep.Err != nil {
			continue
		}
		next, err := spc.Step(rep.FinalPhase, m)
		if err != nil {
			rep.Err = err
			emit(protocolFinding(i, m, err))
			if opts.StopOnFirstError {
				break
			}
			continue
		}
		rep.FinalPhase = next
	}

	for _, f := range checkCancelConsistency(sid, rep.Trace) {
		emit(f)
	}
	for _, f := range checkTurnConcurrency(sid, rep.Trace) {
		emit(f)
	}
	for _, f := range checkModeValidity(sid, rep.Trace) {
		emit(f)
	}

	if rep.Err != nil {
		span.RecordError(rep.Err)
	}
	opts.Metrics.RecordTimer("validation.run.duration", time.Since(start))
	return rep
}

// protocolFinding renders a phase error as a protocol-lane finding. The
// subject prefers the error's own session, then the message's, then the
// connection as a whole.
func protocolFinding(index int, m acp.Message, err *phase.ProtocolError) Finding {
	subject := ConnectionSubject()
	sid := err.SessionID
	if sid == "" {
		if s, ok := acp.SessionOf(m); ok {
			sid = s
		}
	}
	if sid != "" {
		subject = SessionSubject(sid)
	}
	return Finding{
		Lane:       LaneProtocol,
		Severity:   SeverityError,
		Subject:    subject,
		Failure:    string(err.Code),
		SessionID:  sid,
		TraceIndex: indexPtr(index),
		Note:       err.Error(),
	}
}

func publishFinding(ctx context.Context, opts Options, sid acp.SessionID, f Finding) {
	level := opts.Logger.Error
	if f.Severity == SeverityWarning {
		level = opts.Logger.Warn
	} else if f.Severity == SeverityInfo {
		level = opts.Logger.Info
	}
	level(ctx, "validation finding",
		"run_id", opts.RunID,
		"lane", string(f.Lane),
		"failure", f.Failure,
		"subject", f.Subject.String(),
	)

	if opts.Sink == nil {
		return
	}
	evt := stream.Event{
		Type:      stream.EventFinding,
		RunID:     opts.RunID,
		SessionID: string(sid),
		Payload:   f,
		Timestamp: time.Now().UTC(),
	}
	if err := opts.Sink.Send(ctx, evt); err != nil {
		opts.Logger.Warn(ctx, "finding event dropped", "run_id", opts.RunID, "err", err)
	}
}
