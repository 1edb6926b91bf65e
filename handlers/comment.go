package handlers

import (
	"net/http"

	"spotshare/middleware"
	"spotshare/models"
	"spotshare/services/comment"

	"github.com/gin-gonic/gin"
)

// CommentHandler exposes comment and vote endpoints.
type CommentHandler struct {
	CommentService comment.Service
}

// NewCommentHandler wires a comment handler.
func NewCommentHandler(svc comment.Service) *CommentHandler {
	return &CommentHandler{CommentService: svc}
}

// AddCommentHandler handles POST /api/parkings/:id/comments.
func (h *CommentHandler) AddCommentHandler(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.CommentService.Add(c.Request.Context(), c.Param("id"), middleware.CallerID(c), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListCommentsHandler handles GET /api/parkings/:id/comments.
func (h *CommentHandler) ListCommentsHandler(c *gin.Context) {
	comments, err := h.CommentService.ListForParking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// VoteHandler handles PUT /api/comments/:id/vote.
func (h *CommentHandler) VoteHandler(c *gin.Context) {
	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	value := models.VoteValue(req.Value)
	if !value.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be \"like\" or \"dislike\""})
		return
	}

	if err := h.CommentService.Vote(c.Request.Context(), c.Param("id"), middleware.CallerID(c), value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}
