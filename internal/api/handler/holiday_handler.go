package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/repository"
	"github.com/Jayesh2422/smartpark/internal/service"
)

type HolidayHandler struct {
	parkingService *service.ParkingService
}

func NewHolidayHandler(ps *service.ParkingService) *HolidayHandler {
	return &HolidayHandler{parkingService: ps}
}

// POST /holidays
func (h *HolidayHandler) CreateHoliday(c *gin.Context) {
	var dto domain.HolidayDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holiday, err := h.parkingService.CreateHoliday(c.Request.Context(), dto)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not create holiday", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, holiday)
}

// GET /holidays
func (h *HolidayHandler) GetAllHolidays(c *gin.Context) {
	holidays, err := h.parkingService.GetAllHolidays(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list holidays"})
		return
	}
	c.JSON(http.StatusOK, holidays)
}

// GET /holidays/upcoming?days=
func (h *HolidayHandler) UpcomingHolidays(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days parameter"})
			return
		}
		days = parsed
	}

	holidays, err := h.parkingService.UpcomingHolidays(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list upcoming holidays"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"holidays": holidays, "count": len(holidays)})
}

// PUT /holidays/:id
func (h *HolidayHandler) UpdateHoliday(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid holiday ID"})
		return
	}

	var dto domain.HolidayDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holiday, err := h.parkingService.UpdateHoliday(c.Request.Context(), id, dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "holiday not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not update holiday", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, holiday)
}

// DELETE /holidays/:id
func (h *HolidayHandler) DeleteHoliday(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid holiday ID"})
		return
	}

	if err := h.parkingService.DeleteHoliday(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "holiday not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete holiday"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "holiday deleted"})
}
