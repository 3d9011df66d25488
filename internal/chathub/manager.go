// Package chathub fans case events out to realtime subscribers. Events are
// published to Redis by whichever instance handled the write, so every
// instance delivers them to its own connected clients.
package chathub

import (
	"context"
	"sync"

	"denuncia/backend/internal/models"

	"go.uber.org/zap"
)

// ManagerService owns the set of connected clients. Only Run mutates it.
type ManagerService struct {
	RegisterCh   chan Client
	UnregisterCh chan Client
	EventsCh     chan models.CaseEvent

	Log *zap.Logger

	mu      sync.RWMutex
	clients map[uint]map[string]Client
	done    chan struct{}
}

func NewManagerService(log *zap.Logger) *ManagerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ManagerService{
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventsCh:     make(chan models.CaseEvent, 64),
		Log:          log,
		clients:      make(map[uint]map[string]Client),
		done:         make(chan struct{}),
	}
}

// Done is closed once Run has returned.
func (m *ManagerService) Done() <-chan struct{} { return m.done }

// Subscribers returns how many clients are connected to case caseID.
func (m *ManagerService) Subscribers(caseID uint) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[caseID])
}

// Register hands c to the hub. It returns false if the hub has stopped.
func (m *ManagerService) Register(c Client) bool {
	select {
	case m.RegisterCh <- c:
		return true
	case <-m.done:
		return false
	}
}

// Unregister removes c. It never blocks on a stopped hub.
func (m *ManagerService) Unregister(c Client) {
	select {
	case m.UnregisterCh <- c:
	case <-m.done:
	}
}

// Run processes registrations and events until ctx is cancelled, then
// closes every remaining client.
func (m *ManagerService) Run(ctx context.Context) {
	defer close(m.done)
	defer m.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-m.RegisterCh:
			m.add(c)
		case c := <-m.UnregisterCh:
			m.remove(c)
		case ev := <-m.EventsCh:
			m.deliver(ev)
		}
	}
}

func (m *ManagerService) add(c Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.clients[c.GetCaseID()]
	if !ok {
		byID = make(map[string]Client)
		m.clients[c.GetCaseID()] = byID
	}
	byID[c.GetClientID()] = c
	m.Log.Debug("client registered", zap.String("client", c.GetClientID()), zap.Uint("case_id", c.GetCaseID()))
}

// remove closes c if it is still registered. A client dropped for being
// slow unregisters itself later; that second call is a no-op.
func (m *ManagerService) remove(c Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(c)
}

func (m *ManagerService) removeLocked(c Client) {
	byID, ok := m.clients[c.GetCaseID()]
	if !ok {
		return
	}
	if _, ok := byID[c.GetClientID()]; !ok {
		return
	}
	delete(byID, c.GetClientID())
	if len(byID) == 0 {
		delete(m.clients, c.GetCaseID())
	}
	c.Close()
	m.Log.Debug("client unregistered", zap.String("client", c.GetClientID()), zap.Uint("case_id", c.GetCaseID()))
}

func (m *ManagerService) deliver(ev models.CaseEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := ev.ForClient()
	for _, c := range m.clients[ev.CaseID] {
		select {
		case c.GetSendChannel() <- out:
		default:
			m.Log.Warn("dropping slow client", zap.String("client", c.GetClientID()), zap.Uint("case_id", ev.CaseID))
			m.removeLocked(c)
		}
	}
}

func (m *ManagerService) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, byID := range m.clients {
		for _, c := range byID {
			c.Close()
		}
	}
	m.clients = make(map[uint]map[string]Client)
}
