package handlers

import (
	"net/http"
	"strconv"

	"spotshare/services/leaderboard"

	"github.com/gin-gonic/gin"
)

// LeaderboardHandler exposes the ranked points display.
type LeaderboardHandler struct {
	LeaderboardService leaderboard.Service
}

// NewLeaderboardHandler wires a leaderboard handler.
func NewLeaderboardHandler(svc leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{LeaderboardService: svc}
}

// TopHandler handles GET /api/leaderboard?limit=..
func (h *LeaderboardHandler) TopHandler(c *gin.Context) {
	limit := int64(50)
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	entries, err := h.LeaderboardService.Top(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
