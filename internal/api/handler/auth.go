package handler

import (
	"net/http"

	"denuncia/backend/internal/api/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ActorView describes who the caller is.
type ActorView struct {
	Admin       bool   `json:"admin"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Author      string `json:"author"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sess, err := h.Sessions.SignIn(c.Request.Context(), h.Admins, req.Email, req.Password)
	if err != nil {
		h.Log.Info("sign in failed", zap.String("email", req.Email), zap.Error(err))
		h.fail(c, err)
		return
	}
	h.Log.Info("admin signed in", zap.String("admin", sess.Email))
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := h.Sessions.Revoke(c.Request.Context(), sess); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me reports the current actor: the anonymous reporter without a session.
func (h *Handler) Me(c *gin.Context) {
	actor := h.Cases.CurrentActor(middleware.CurrentSession(c))
	view := ActorView{Author: actor.AuthorLabel()}
	if admin, ok := actor.Admin(); ok {
		view.Admin = true
		view.DisplayName = admin.DisplayName
		view.Email = admin.Email
	}
	c.JSON(http.StatusOK, view)
}
