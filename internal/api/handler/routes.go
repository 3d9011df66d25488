package handler

import (
	"net/http"

	"denuncia/backend/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Routes mounts every endpoint on r. createLimit guards case submission.
func (h *Handler) Routes(r *gin.Engine, createLimit gin.HandlerFunc) {
	r.GET("/health", h.Health)
	r.GET("/ws", middleware.OptionalAuth(h.Sessions), h.ServeWebSocket)

	api := r.Group("/api/v1")
	{
		api.POST("/denuncias", createLimit, h.CreateCase)
		api.POST("/anexos/upload-url", h.UploadURL)

		token := api.Group("/acompanhamento/:token", middleware.OptionalAuth(h.Sessions))
		token.GET("", h.GetCaseByToken)
		token.GET("/mensagens", h.ListMessagesByToken)
		token.POST("/mensagens", h.PostMessageByToken)
		token.POST("/anexos", h.AddEvidence)

		api.POST("/auth/login", h.Login)
		api.POST("/auth/logout", middleware.Auth(h.Sessions), h.Logout)
		api.GET("/me", middleware.OptionalAuth(h.Sessions), h.Me)

		admin := api.Group("/admin", middleware.Auth(h.Sessions), middleware.AdminOnly())
		admin.GET("/denuncias", h.ListCases)
		admin.GET("/denuncias/:id", h.GetCaseByID)
		admin.GET("/denuncias/:id/mensagens", h.ListMessagesByID)
		admin.POST("/denuncias/:id/mensagens", h.PostMessageByID)
		admin.PATCH("/denuncias/:id/status", h.SetStatus)
		admin.GET("/denuncias/:id/follow", h.GetFollower)
		admin.POST("/denuncias/:id/follow", h.Follow)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
