package client

import (
	"context"

	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"
)

// CaseHandle is one case seen through one access mode. It satisfies the
// tracker's Source.
type CaseHandle struct {
	c     *Client
	mode  policy.AccessMode
	token string
	id    uint
}

// ByToken addresses a case through its follow-up token.
func (c *Client) ByToken(token string) *CaseHandle {
	return &CaseHandle{c: c, mode: policy.ModeToken, token: token}
}

// ByID addresses a case through its numeric id.
func (c *Client) ByID(id uint) *CaseHandle {
	return &CaseHandle{c: c, mode: policy.ModeID, id: id}
}

func (h *CaseHandle) Mode() policy.AccessMode { return h.mode }

func (h *CaseHandle) Status(ctx context.Context) (models.Status, error) {
	if h.mode == policy.ModeToken {
		v, err := h.c.CaseByToken(ctx, h.token)
		if err != nil {
			return "", err
		}
		return v.Status, nil
	}
	v, err := h.c.CaseByID(ctx, h.id)
	if err != nil {
		return "", err
	}
	return v.Status, nil
}

func (h *CaseHandle) Messages(ctx context.Context) ([]models.Message, error) {
	if h.mode == policy.ModeToken {
		return h.c.MessagesByToken(ctx, h.token)
	}
	return h.c.MessagesByID(ctx, h.id)
}

func (h *CaseHandle) Send(ctx context.Context, body string) (*models.Message, error) {
	if h.mode == policy.ModeToken {
		return h.c.SendByToken(ctx, h.token, body)
	}
	return h.c.SendByID(ctx, h.id, body)
}

// SetStatus is only reachable on the id channel; the token channel has no
// status route and reports Forbidden.
func (h *CaseHandle) SetStatus(ctx context.Context, status models.Status) error {
	if h.mode == policy.ModeToken {
		return policy.ErrForbidden
	}
	_, err := h.c.SetStatus(ctx, h.id, status)
	return err
}
