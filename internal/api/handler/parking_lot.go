package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jayesh2422/smartpark/internal/domain"
	"github.com/Jayesh2422/smartpark/internal/repository"
	"github.com/Jayesh2422/smartpark/internal/service"
)

type ParkingLotHandler struct {
	parkingService *service.ParkingService
}

func NewParkingLotHandler(ps *service.ParkingService) *ParkingLotHandler {
	return &ParkingLotHandler{parkingService: ps}
}

// POST /parkings
func (h *ParkingLotHandler) CreateParkingLot(c *gin.Context) {
	var dto domain.ParkingLotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lot, err := h.parkingService.CreateParkingLot(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create parking", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, lot)
}

// GET /parkings/:id
func (h *ParkingLotHandler) GetParkingLotByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parking ID"})
		return
	}

	lot, err := h.parkingService.GetParkingLotByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "parking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch parking"})
		return
	}
	c.JSON(http.StatusOK, lot)
}

// GET /parkings
func (h *ParkingLotHandler) GetAllParkingLots(c *gin.Context) {
	lots, err := h.parkingService.GetAllParkingLots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list parkings"})
		return
	}
	c.JSON(http.StatusOK, lots)
}

// PUT /parkings/:id
func (h *ParkingLotHandler) UpdateParkingLot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parking ID"})
		return
	}

	var dto domain.ParkingLotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lot, err := h.parkingService.UpdateParkingLot(c.Request.Context(), id, dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "parking not found"})
			return
		}
		if errors.Is(err, repository.ErrDuplicateEntry) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update parking", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lot)
}

// DELETE /parkings/:id
func (h *ParkingLotHandler) DeleteParkingLot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parking ID"})
		return
	}

	if err := h.parkingService.DeleteParkingLot(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "parking not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "parking deleted"})
}

// GET /parkings/nearby?lat=&lng=&radius_km=&duration_hours=&date=
func (h *ParkingLotHandler) NearbyParkings(c *gin.Context) {
	q, ok := parseNearbyQuery(c)
	if !ok {
		return
	}

	lots, err := h.parkingService.NearbyParkings(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not search parkings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"parkings": lots, "count": len(lots)})
}

// GET /parkings/:id/alternatives?radius_km=&duration_hours=&date=
func (h *ParkingLotHandler) Alternatives(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parking ID"})
		return
	}
	q, ok := parseNearbyQuery(c)
	if !ok {
		return
	}

	alternatives, err := h.parkingService.Alternatives(c.Request.Context(), id, q)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "parking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not find alternatives", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alternatives": alternatives, "count": len(alternatives)})
}

// GET /parkings/:id/quote?date=&duration_hours=
func (h *ParkingLotHandler) Quote(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parking ID"})
		return
	}

	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
	}
	durationHours := queryFloat(c, "duration_hours", 1)

	quote, err := h.parkingService.Quote(c.Request.Context(), id, date, durationHours)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "parking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute quote", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// POST /parkings/:id/allocate-slot
func (h *ParkingLotHandler) AllocateSlot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parking ID"})
		return
	}

	var dto struct {
		VehicleType   string  `json:"vehicle_type" binding:"required,oneof=bike car suv"`
		DurationHours float64 `json:"duration_hours"`
	}
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dto.DurationHours <= 0 {
		dto.DurationHours = 1
	}

	allocated, err := h.parkingService.AllocateSlot(c.Request.Context(), id,
		domain.VehicleType(dto.VehicleType), dto.DurationHours)
	if err != nil {
		if errors.Is(err, service.ErrNoSlotAvailable) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not allocate slot", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, allocated)
}

func parseNearbyQuery(c *gin.Context) (service.NearbyQuery, bool) {
	q := service.NearbyQuery{
		Lat:           queryFloat(c, "lat", 0),
		Lng:           queryFloat(c, "lng", 0),
		RadiusKm:      queryFloat(c, "radius_km", 5),
		DurationHours: queryFloat(c, "duration_hours", 1),
		Date:          time.Now(),
	}
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return q, false
		}
		q.Date = date
	}
	return q, true
}

func queryFloat(c *gin.Context, key string, fallback float64) float64 {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}
