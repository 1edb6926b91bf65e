package handlers

import (
	"net/http"
	"strconv"

	"spotshare/models"
	"spotshare/services/geocode"

	"github.com/gin-gonic/gin"
)

// GeocodeHandler exposes the address lookup endpoint.
type GeocodeHandler struct {
	Geocoder geocode.Service
}

// NewGeocodeHandler wires a geocode handler.
func NewGeocodeHandler(svc geocode.Service) *GeocodeHandler {
	return &GeocodeHandler{Geocoder: svc}
}

// SearchHandler handles GET /api/geocode?q=..&limit=..&swLat=..&swLng=..&neLat=..&neLng=..
func (h *GeocodeHandler) SearchHandler(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: q"})
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 20 {
			limit = parsed
		}
	}

	var bounds *models.BoundingBox
	swLat, errA := strconv.ParseFloat(c.Query("swLat"), 64)
	swLng, errB := strconv.ParseFloat(c.Query("swLng"), 64)
	neLat, errC := strconv.ParseFloat(c.Query("neLat"), 64)
	neLng, errD := strconv.ParseFloat(c.Query("neLng"), 64)
	if errA == nil && errB == nil && errC == nil && errD == nil {
		bounds = &models.BoundingBox{
			SouthWestLat: swLat, SouthWestLng: swLng,
			NorthEastLat: neLat, NorthEastLng: neLng,
		}
	}

	results, err := h.Geocoder.Search(c.Request.Context(), query, bounds, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}
	c.JSON(http.StatusOK, results)
}
