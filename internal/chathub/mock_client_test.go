package chathub_test

import (
	"sync"

	"denuncia/backend/internal/models"
)

type MockClient struct {
	id          string
	caseID      uint
	RecvChannel chan models.ClientEvent

	mu     sync.Mutex
	closed int
}

func newMockClient(id string, caseID uint, buffer int) *MockClient {
	return &MockClient{
		id:          id,
		caseID:      caseID,
		RecvChannel: make(chan models.ClientEvent, buffer),
	}
}

func (c *MockClient) GetClientID() string { return c.id }

func (c *MockClient) GetCaseID() uint { return c.caseID }

func (c *MockClient) GetSendChannel() chan<- models.ClientEvent {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
}

func (c *MockClient) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
