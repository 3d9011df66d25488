package models

// Event types carried by CaseEvent.
const (
	EventMessage = "message"
	EventStatus  = "status"
)

// CaseEvent is published on every transcript append and status change and
// pushed to realtime subscribers of the case.
type CaseEvent struct {
	// CaseID routes the event; it is not sent to clients.
	CaseID  uint     `json:"case_id"`
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
	Status  Status   `json:"status,omitempty"`
}

// ClientEvent is the shape written to a realtime subscriber.
type ClientEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
	Status  Status   `json:"status,omitempty"`
}

// ForClient strips routing data from the event.
func (e CaseEvent) ForClient() ClientEvent {
	return ClientEvent{Type: e.Type, Message: e.Message, Status: e.Status}
}
