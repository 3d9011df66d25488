package handler

import (
	"net/http"
	"strconv"

	"denuncia/backend/internal/api/middleware"
	"denuncia/backend/internal/chathub"
	"denuncia/backend/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS middleware on the API routes.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket streams the events of one case. The case is selected with
// ?token= (anyone holding the token) or ?case= (administrator session).
func (h *Handler) ServeWebSocket(c *gin.Context) {
	caseID, err := h.resolveStreamCase(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, conn, uuid.New().String(), caseID)
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}
	client.Run()
}

func (h *Handler) resolveStreamCase(c *gin.Context) (uint, error) {
	ctx := c.Request.Context()
	if token := c.Query("token"); token != "" {
		found, err := h.Cases.CaseByToken(ctx, token)
		if err != nil {
			return 0, err
		}
		return found.ID, nil
	}
	id, err := strconv.ParseUint(c.Query("case"), 10, 32)
	if err != nil || id == 0 {
		return 0, policy.ErrNotFound
	}
	found, err := h.Cases.CaseByID(ctx, middleware.CurrentSession(c), uint(id))
	if err != nil {
		return 0, err
	}
	return found.ID, nil
}
