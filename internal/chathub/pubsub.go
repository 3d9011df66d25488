package chathub

import (
	"context"
	"encoding/json"

	"denuncia/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Listen forwards events from a Redis subscription into the hub until ctx
// is cancelled or the subscription is closed. The caller owns ps.
func (m *ManagerService) Listen(ctx context.Context, ps *redis.PubSub) {
	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			ev, err := decodeEvent(msg.Payload)
			if err != nil {
				m.Log.Warn("bad case event payload", zap.Error(err))
				continue
			}
			select {
			case m.EventsCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func decodeEvent(payload string) (models.CaseEvent, error) {
	var ev models.CaseEvent
	err := json.Unmarshal([]byte(payload), &ev)
	return ev, err
}
