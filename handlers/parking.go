package handlers

import (
	"net/http"
	"strconv"

	"spotshare/middleware"
	"spotshare/models"
	"spotshare/services/parking"

	"github.com/gin-gonic/gin"
)

// ParkingHandler exposes parking spot endpoints.
type ParkingHandler struct {
	ParkingService parking.Service
}

// NewParkingHandler wires a parking handler.
func NewParkingHandler(svc parking.Service) *ParkingHandler {
	return &ParkingHandler{ParkingService: svc}
}

// PublishHandler handles POST /api/parkings.
func (h *ParkingHandler) PublishHandler(c *gin.Context) {
	var input parking.PublishInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spot, err := h.ParkingService.Publish(c.Request.Context(), middleware.CallerID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, spot)
}

// GetHandler handles GET /api/parkings/:id.
func (h *ParkingHandler) GetHandler(c *gin.Context) {
	detail, err := h.ParkingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// NearbyHandler handles GET /api/parkings/nearby?lat=..&lng=..&radius=..
func (h *ParkingHandler) NearbyHandler(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}
	radius := 1000.0
	if raw := c.Query("radius"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			radius = parsed
		}
	}

	spots, err := h.ParkingService.ListNearby(c.Request.Context(), lat, lng, radius)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spots)
}

// UpdateHandler handles PATCH /api/parkings/:id (owner only).
func (h *ParkingHandler) UpdateHandler(c *gin.Context) {
	var update models.ParkingUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.ParkingService.Update(c.Request.Context(), middleware.CallerID(c), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Parking updated"})
}

// RateHandler handles PUT /api/parkings/:id/rating.
func (h *ParkingHandler) RateHandler(c *gin.Context) {
	var req struct {
		Stars int `json:"stars" binding:"required,min=1,max=5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.ParkingService.Rate(c.Request.Context(), middleware.CallerID(c), c.Param("id"), req.Stars)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating saved"})
}
