package acp

import "encoding/json"

type (
	// ExtRequest carries a request whose method is not part of the modeled
	// protocol surface. The raw params are preserved so the frame can be
	// re-encoded losslessly.
	ExtRequest struct {
		Dir       Direction
		ID        RequestID
		ExtMethod string
		Params    json.RawMessage
	}

	// ExtNotification carries an unrecognized notification.
	ExtNotification struct {
		Dir       Direction
		ExtMethod string
		Params    json.RawMessage
	}

	// ExtResponse carries the result of an ExtRequest, reattached to its
	// method through the correlation table.
	ExtResponse struct {
		Dir       Direction
		ID        RequestID
		ExtMethod string
		Result    json.RawMessage
	}

	// ErrorResponse is a JSON-RPC error response. Method and SessionID come
	// from the correlated request; the wire frame carries neither.
	ErrorResponse struct {
		Dir       Direction
		ID        RequestID
		ReqMethod string
		SessionID SessionID
		Err       RPCError
	}
)

func (m *ExtRequest) Direction() Direction      { return m.Dir }
func (m *ExtNotification) Direction() Direction { return m.Dir }
func (m *ExtResponse) Direction() Direction     { return m.Dir }
func (m *ErrorResponse) Direction() Direction   { return m.Dir }

func (m *ExtRequest) Method() string      { return m.ExtMethod }
func (m *ExtNotification) Method() string { return m.ExtMethod }
func (m *ExtResponse) Method() string     { return m.ExtMethod }
func (m *ErrorResponse) Method() string   { return m.ReqMethod }

func (m *ErrorResponse) Session() SessionID { return m.SessionID }

func (*ExtRequest) acpMessage()      {}
func (*ExtNotification) acpMessage() {}
func (*ExtResponse) acpMessage()     {}
func (*ErrorResponse) acpMessage()   {}
