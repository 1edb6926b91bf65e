package handlers

import (
	"net/http"

	"spotshare/middleware"
	"spotshare/services/reservation"

	"github.com/gin-gonic/gin"
)

// ReservationHandler exposes the reservation ledger endpoints.
type ReservationHandler struct {
	ReservationService reservation.Service
}

// NewReservationHandler wires a reservation handler.
func NewReservationHandler(svc reservation.Service) *ReservationHandler {
	return &ReservationHandler{ReservationService: svc}
}

// ReserveHandler handles POST /api/parkings/:id/reserve.
func (h *ReservationHandler) ReserveHandler(c *gin.Context) {
	userID := middleware.CallerID(c)
	if err := h.ReservationService.Reserve(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Spot reserved"})
}

// FinishHandler handles POST /api/parkings/:id/finish.
func (h *ReservationHandler) FinishHandler(c *gin.Context) {
	userID := middleware.CallerID(c)
	if err := h.ReservationService.Finish(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation finished"})
}

// ActiveHandler handles GET /api/reservations/active.
func (h *ReservationHandler) ActiveHandler(c *gin.Context) {
	reservations, err := h.ReservationService.ActiveForUser(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}
