package chathub

import (
	"encoding/json"
	"time"

	"denuncia/backend/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketClient implements Client over a gorilla/websocket connection.
// The stream is server to client only; anything the peer sends is discarded.
type WebSocketClient struct {
	ID     string
	CaseID uint
	Conn   *websocket.Conn
	Hub    *ManagerService
	Send   chan models.ClientEvent
	Log    *zap.Logger
}

func NewWebSocketClient(hub *ManagerService, conn *websocket.Conn, id string, caseID uint) *WebSocketClient {
	return &WebSocketClient{
		ID:     id,
		CaseID: caseID,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.ClientEvent, 16),
		Log:    hub.Log,
	}
}

func (c *WebSocketClient) GetClientID() string                        { return c.ID }
func (c *WebSocketClient) GetCaseID() uint                            { return c.CaseID }
func (c *WebSocketClient) GetSendChannel() chan<- models.ClientEvent { return c.Send }

func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes Send, which stops writePump.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Log.Debug("websocket read failed", zap.String("client", c.ID), zap.Error(err))
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				c.Log.Error("encode client event", zap.String("client", c.ID), zap.Error(err))
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
