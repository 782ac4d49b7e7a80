package sentinel

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/venikman/acp-sentinel/acp"
	"github.com/venikman/acp-sentinel/sentinel/profile"
)

// CheckFrame evaluates one decoded frame against a deployment profile. It
// covers the transport lane (frame size) and the implementation lane
// (extension method allow list, extension payload schemas). A nil profile
// yields no findings.
func CheckFrame(p *profile.Profile, index int, raw []byte, m acp.Message) []Finding {
	if p == nil {
		return nil
	}
	var findings []Finding

	if p.MaxFrameBytes > 0 && len(raw) > p.MaxFrameBytes {
		findings = append(findings, Finding{
			Lane:       LaneTransport,
			Severity:   SeverityError,
			Subject:    MessageAtSubject(index),
			Failure:    FailureMessageTooLarge,
			TraceIndex: indexPtr(index),
			Note:       fmt.Sprintf("frame is %d bytes, limit is %d", len(raw), p.MaxFrameBytes),
		})
	}

	method, payload, isExt := extPayload(m)
	if !isExt {
		return findings
	}

	if !p.ExtMethodAllowed(method) {
		findings = append(findings, Finding{
			Lane:       LaneImplementation,
			Severity:   SeverityError,
			Subject:    MessageAtSubject(index),
			Failure:    FailureExtMethodNotAllowed,
			TraceIndex: indexPtr(index),
			Note:       fmt.Sprintf("extension method %q is not in the allow list", method),
		})
	}

	if schema := p.SchemaFor(method); schema != nil && len(payload) > 0 && !bytes.Equal(payload, []byte("null")) {
		if err := validatePayload(schema, payload); err != nil {
			findings = append(findings, Finding{
				Lane:       LaneImplementation,
				Severity:   SeverityError,
				Subject:    MessageAtSubject(index),
				Failure:    FailureExtPayloadSchema,
				TraceIndex: indexPtr(index),
				Note:       fmt.Sprintf("extension payload for %q rejected: %v", method, err),
			})
		}
	}
	return findings
}

func extPayload(m acp.Message) (method string, payload []byte, ok bool) {
	switch msg := m.(type) {
	case *acp.ExtRequest:
		return msg.ExtMethod, msg.Params, true
	case *acp.ExtNotification:
		return msg.ExtMethod, msg.Params, true
	case *acp.ExtResponse:
		return msg.ExtMethod, msg.Result, true
	}
	return "", nil, false
}

func validatePayload(schema *jsonschema.Schema, payload []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}
