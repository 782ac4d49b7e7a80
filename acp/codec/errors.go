package codec

import (
	"fmt"

	"github.com/venikman/acp-sentinel/acp"
)

type (
	// ErrorKind discriminates decode failures.
	ErrorKind string

	// DecodeError reports why a single frame could not be decoded. A decode
	// error is fatal only to that call: the caller's State is never corrupted
	// by a failed decode.
	DecodeError struct {
		// Kind is the failure class.
		Kind ErrorKind
		// Method is the offending method name, when known.
		Method string
		// Expected is the direction a mismatched method is scoped to.
		Expected acp.Direction
		// ID is the unmatched response id, when relevant.
		ID acp.RequestID
		// cause is the underlying JSON error, if any.
		cause error
	}
)

const (
	// ErrMalformedFrame marks frames that are not valid JSON-RPC envelopes.
	ErrMalformedFrame ErrorKind = "malformed_frame"
	// ErrDirectionMismatch marks a known method seen from the wrong peer.
	ErrDirectionMismatch ErrorKind = "direction_mismatch"
	// ErrUnmatchedResponse marks a response with no pending request.
	ErrUnmatchedResponse ErrorKind = "unmatched_response"
	// ErrInvalidPayload marks params or results that do not parse for their
	// method.
	ErrInvalidPayload ErrorKind = "invalid_payload"
)

func (e *DecodeError) Error() string {
	switch e.Kind {
	case ErrDirectionMismatch:
		return fmt.Sprintf("codec: method %q is %s-only", e.Method, e.Expected)
	case ErrUnmatchedResponse:
		return fmt.Sprintf("codec: response id %s matches no pending request", e.ID)
	case ErrInvalidPayload:
		return fmt.Sprintf("codec: invalid payload for %q: %v", e.Method, e.cause)
	default:
		return fmt.Sprintf("codec: malformed frame: %v", e.cause)
	}
}

func (e *DecodeError) Unwrap() error { return e.cause }

func malformed(cause error) *DecodeError {
	return &DecodeError{Kind: ErrMalformedFrame, cause: cause}
}

func invalidPayload(method string, cause error) *DecodeError {
	return &DecodeError{Kind: ErrInvalidPayload, Method: method, cause: cause}
}
