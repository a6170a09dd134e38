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

type ParkingSlotHandler struct {
	parkingService *service.ParkingService
}

func NewParkingSlotHandler(ps *service.ParkingService) *ParkingSlotHandler {
	return &ParkingSlotHandler{parkingService: ps}
}

// POST /parkings/:id/slots
func (h *ParkingSlotHandler) CreateParkingSlot(c *gin.Context) {
	parkingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parking ID"})
		return
	}

	var dto domain.ParkingSlotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dto.ParkingID = parkingID

	slot, err := h.parkingService.CreateParkingSlot(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			c.JSON(http.StatusConflict, gin.H{"error": "slot number already exists in this parking"})
			return
		}
		if errors.Is(err, service.ErrSlotCapacityReached) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create slot", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// GET /parkings/:id/slots
func (h *ParkingSlotHandler) GetSlotsByParkingID(c *gin.Context) {
	parkingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parking ID"})
		return
	}

	slots, err := h.parkingService.GetSlotsByParkingID(c.Request.Context(), parkingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list slots"})
		return
	}
	c.JSON(http.StatusOK, slots)
}

// GET /parking-slots/:slot_id
func (h *ParkingSlotHandler) GetParkingSlotByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("slot_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot ID"})
		return
	}

	slot, err := h.parkingService.GetParkingSlotByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "slot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch slot"})
		return
	}
	c.JSON(http.StatusOK, slot)
}

// PUT /parking-slots/:slot_id
func (h *ParkingSlotHandler) UpdateParkingSlot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("slot_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot ID"})
		return
	}

	var dto domain.ParkingSlotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.parkingService.UpdateParkingSlot(c.Request.Context(), id, dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "slot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update slot", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DELETE /parking-slots/:slot_id
func (h *ParkingSlotHandler) DeleteParkingSlot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("slot_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot ID"})
		return
	}

	if err := h.parkingService.DeleteParkingSlot(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "slot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete slot"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "slot deleted"})
}
