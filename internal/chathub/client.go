package chathub

import "denuncia/backend/internal/models"

// Client is one realtime subscriber to a case. It abstracts the underlying
// connection so the hub can manage WebSocket and test clients uniformly.
type Client interface {
	// GetClientID returns an identifier unique among connected clients.
	GetClientID() string
	// GetCaseID returns the case whose events the client receives.
	GetCaseID() uint

	// GetSendChannel returns the channel the hub writes events to.
	GetSendChannel() chan<- models.ClientEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the send channel. Only the hub calls it, once.
	Close()
}
