package handler

import (
	"net/http"
	"strconv"

	"denuncia/backend/internal/api/middleware"
	"denuncia/backend/internal/followup"
	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"

	"github.com/gin-gonic/gin"
)

type createCaseRequest struct {
	Category    models.Category `json:"category" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Anonymous   bool            `json:"anonymous"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Evidence    []string        `json:"evidence"`
}

// CreatedCase is returned once on submission. The token is never shown again.
type CreatedCase struct {
	Token  string        `json:"token"`
	Status models.Status `json:"status"`
}

type messageRequest struct {
	Body string `json:"body" binding:"required"`
}

type statusRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

type evidenceRequest struct {
	Key string `json:"key" binding:"required"`
}

type uploadRequest struct {
	FileName string `json:"file_name" binding:"required"`
}

// CreateCase handles POST /api/v1/denuncias.
func (h *Handler) CreateCase(c *gin.Context) {
	var req createCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.Cases.CreateCase(c.Request.Context(), followup.NewCase{
		Category:      req.Category,
		Description:   req.Description,
		Anonymous:     req.Anonymous,
		ReporterName:  req.Name,
		ReporterEmail: req.Email,
		Evidence:      req.Evidence,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreatedCase{Token: created.Token, Status: created.Status})
}

func (h *Handler) GetCaseByToken(c *gin.Context) {
	found, err := h.Cases.CaseByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, found.ForToken())
}

func (h *Handler) ListMessagesByToken(c *gin.Context) {
	msgs, err := h.Cases.MessagesByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// PostMessageByToken appends as the reporter, or as the administrator when
// the request carries an administrator session.
func (h *Handler) PostMessageByToken(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := h.Cases.AppendByToken(c.Request.Context(), c.Param("token"), middleware.CurrentSession(c), req.Body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) AddEvidence(c *gin.Context) {
	var req evidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Cases.AddEvidence(c.Request.Context(), c.Param("token"), req.Key); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UploadURL(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	up, err := h.Uploads.UploadURL(c.Request.Context(), req.FileName)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, up)
}

func (h *Handler) ListCases(c *gin.Context) {
	cases, err := h.Cases.ListCases(c.Request.Context(), middleware.CurrentSession(c), models.Status(c.Query("status")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cases)
}

func (h *Handler) GetCaseByID(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}
	found, err := h.Cases.CaseByID(c.Request.Context(), middleware.CurrentSession(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *Handler) ListMessagesByID(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}
	msgs, err := h.Cases.MessagesByID(c.Request.Context(), middleware.CurrentSession(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) PostMessageByID(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := h.Cases.AppendByID(c.Request.Context(), middleware.CurrentSession(c), id, req.Body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	updated, err := h.Cases.SetStatus(c.Request.Context(), middleware.CurrentSession(c), id, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// FollowResult reports who was following a case before the caller.
type FollowResult struct {
	Follower         string `json:"follower"`
	PreviousFollower string `json:"previous_follower,omitempty"`
}

func (h *Handler) Follow(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}
	sess := middleware.CurrentSession(c)
	prev, err := h.Cases.Follow(c.Request.Context(), sess, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, FollowResult{Follower: sess.Actor().AuthorLabel(), PreviousFollower: prev})
}

func (h *Handler) GetFollower(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}
	follower, err := h.Cases.Follower(c.Request.Context(), middleware.CurrentSession(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, FollowResult{Follower: follower})
}

// caseID parses the :id parameter. Anything that is not a positive integer
// cannot name a case and is reported as not found.
func (h *Handler) caseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.fail(c, policy.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}
