package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Jayesh2422/smartpark/internal/api/middleware"
	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/repository"
	"github.com/Jayesh2422/smartpark/internal/service"
)

type VehicleHandler struct {
	vehicleService *service.VehicleService
}

func NewVehicleHandler(vs *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vs}
}

// POST /vehicles
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var dto domain.VehicleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), middleware.CallerID(c), dto)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create vehicle", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

// GET /vehicles
func (h *VehicleHandler) GetVehicles(c *gin.Context) {
	vehicles, err := h.vehicleService.GetVehicles(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list vehicles"})
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// GET /vehicles/default
func (h *VehicleHandler) GetDefaultVehicle(c *gin.Context) {
	vehicle, err := h.vehicleService.GetDefaultVehicle(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no default vehicle"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch default vehicle"})
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// PUT /vehicles/:id
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle ID"})
		return
	}

	var dto domain.VehicleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), middleware.CallerID(c), id, dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
			return
		}
		if errors.Is(err, service.ErrVehicleNotOwned) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update vehicle", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// DELETE /vehicles/:id
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle ID"})
		return
	}

	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), middleware.CallerID(c), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
			return
		}
		if errors.Is(err, service.ErrVehicleNotOwned) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete vehicle"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}
