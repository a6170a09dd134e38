package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Jayesh2422/smartpark/internal/api/middleware"
	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/repository"
	"github.com/Jayesh2422/smartpark/internal/service"
)

type BookingHandler struct {
	bookingService *service.BookingService
}

func NewBookingHandler(bs *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bs}
}

// POST /bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var dto domain.CreateBookingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), middleware.CallerID(c), dto)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "parking, slot or vehicle not found"})
		case errors.Is(err, service.ErrNoSlotAvailable), errors.Is(err, service.ErrSlotUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrVehicleNotOwned):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create booking", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GET /bookings
func (h *BookingHandler) ActiveBookings(c *gin.Context) {
	bookings, err := h.bookingService.ActiveBookings(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list bookings"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GET /bookings/history
func (h *BookingHandler) BookingHistory(c *gin.Context) {
	history, err := h.bookingService.BookingHistory(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list booking history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

// GET /bookings/pending-payments
func (h *BookingHandler) PendingPayments(c *gin.Context) {
	pending, err := h.bookingService.PendingPayments(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list pending payments"})
		return
	}
	c.JSON(http.StatusOK, pending)
}

// POST /bookings/pay
func (h *BookingHandler) Pay(c *gin.Context) {
	var dto domain.MarkPaidDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.bookingService.MarkPaid(c.Request.Context(), middleware.CallerID(c), dto); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no matching unpaid bookings"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not mark bookings paid", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payments recorded"})
}

// POST /bookings/:id/complete
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.closeBooking(c, h.bookingService.CompleteBooking)
}

// POST /bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.closeBooking(c, h.bookingService.CancelBooking)
}

// POST /bookings/:id/free
func (h *BookingHandler) FreeSlot(c *gin.Context) {
	h.closeBooking(c, h.bookingService.FreeSlot)
}

func (h *BookingHandler) closeBooking(c *gin.Context, close func(ctx context.Context, bookingID, userID int) (*domain.BookingHistory, error)) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking ID"})
		return
	}

	entry, err := close(c.Request.Context(), id, middleware.CallerID(c))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, service.ErrBookingNotOwned):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrBookingNotActive):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not close booking", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GET /bookings/estimate?parking_id=
func (h *BookingHandler) EstimateDuration(c *gin.Context) {
	parkingID := 0
	if raw := c.Query("parking_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parking_id"})
			return
		}
		parkingID = parsed
	}

	estimate, err := h.bookingService.EstimateDuration(c.Request.Context(), middleware.CallerID(c), parkingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not estimate duration", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, estimate)
}
