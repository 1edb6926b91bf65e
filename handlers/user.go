package handlers

import (
	"net/http"

	"spotshare/middleware"
	"spotshare/services/rank"
	"spotshare/services/user"
	"spotshare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler exposes account and profile endpoints.
type UserHandler struct {
	UserService user.UserService
	RankManager *rank.Manager
}

// NewUserHandler wires a user handler.
func NewUserHandler(svc user.UserService, rankManager *rank.Manager) *UserHandler {
	return &UserHandler{UserService: svc, RankManager: rankManager}
}

// RegisterHandler handles POST /api/users/register.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var reg user.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.UserService.RegisterUser(c.Request.Context(), reg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler handles POST /api/users/login. A successful login also
// starts the caller's rank engine for the session.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.UserService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if h.RankManager != nil {
		if err := h.RankManager.StartFor(c.Request.Context(), resp.UserID); err != nil {
			utils.GetLogger().Warn("failed to start rank engine",
				zap.String("userID", resp.UserID), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, resp)
}

// LogoutHandler handles POST /api/users/logout.
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	userID := middleware.CallerID(c)
	if h.RankManager != nil {
		h.RankManager.StopFor(userID)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// MeHandler handles GET /api/users/me.
func (h *UserHandler) MeHandler(c *gin.Context) {
	usr, err := h.UserService.GetUserByID(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateLocationHandler handles PUT /api/users/location.
func (h *UserHandler) UpdateLocationHandler(c *gin.Context) {
	// Pointers so the zero value (equator, prime meridian) still
	// satisfies the required binding.
	var req struct {
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.CallerID(c)
	if err := h.UserService.UpdateLocation(c.Request.Context(), userID, *req.Latitude, *req.Longitude); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location updated"})
}

// UpdateFCMTokenHandler handles PUT /api/users/fcm-token.
func (h *UserHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.CallerID(c)
	if err := h.UserService.UpdateFCMToken(c.Request.Context(), userID, req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token updated"})
}
