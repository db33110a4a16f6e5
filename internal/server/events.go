package server

// Client-invoked operation types.
const (
	OpSendMessage  = "message:send"
	OpLoadMessages = "messages:load"
)

// Server-pushed event types.
const (
	EventReceiveMessage  = "message:receive"
	EventMessagesHistory = "messages:history"
	EventError           = "error"
)

// inboundFrame is a decoded client frame.
type inboundFrame struct {
	Type       string `json:"type"`
	ReceiverID string `json:"receiver_id,omitempty"`
	Content    string `json:"content,omitempty"`
}

// eventEnvelope is the shape of every server push.
type eventEnvelope struct {
	Type          string      `json:"type"`
	Data          interface{} `json:"data,omitempty"`
	Error         string      `json:"error,omitempty"`
	Code          string      `json:"code,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
}
