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

type P2PHandler struct {
	p2pService *service.P2PService
}

func NewP2PHandler(p2pService *service.P2PService) *P2PHandler {
	return &P2PHandler{p2pService: p2pService}
}

// POST /p2p/listings
func (h *P2PHandler) CreateListing(c *gin.Context) {
	var dto domain.P2PListingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.p2pService.CreateListing(c.Request.Context(), middleware.CallerID(c), dto)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create listing", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// GET /p2p/listings?vehicle_type=
func (h *P2PHandler) AvailableListings(c *gin.Context) {
	vehicleType := domain.VehicleType(c.Query("vehicle_type"))
	listings, err := h.p2pService.AvailableListings(c.Request.Context(), vehicleType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list available spots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings, "count": len(listings)})
}

// GET /p2p/listings/mine
func (h *P2PHandler) MyListings(c *gin.Context) {
	listings, err := h.p2pService.MyListings(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list your spots"})
		return
	}
	c.JSON(http.StatusOK, listings)
}

// PUT /p2p/listings/:id
func (h *P2PHandler) UpdateListing(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing ID"})
		return
	}

	var dto domain.UpdateP2PListingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.p2pService.UpdateListing(c.Request.Context(), middleware.CallerID(c), id, dto)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		case errors.Is(err, service.ErrListingNotOwned):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not update listing", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, listing)
}

// GET /p2p/rentals
func (h *P2PHandler) MyActiveRentals(c *gin.Context) {
	rentals, err := h.p2pService.MyActiveRentals(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list rentals"})
		return
	}
	c.JSON(http.StatusOK, rentals)
}

// POST /p2p/rentals/:listing_id/rent
func (h *P2PHandler) RentListing(c *gin.Context) {
	listingID, err := strconv.Atoi(c.Param("listing_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing ID"})
		return
	}

	var dto domain.RentP2PListingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.p2pService.RentListing(c.Request.Context(), middleware.CallerID(c), listingID, dto)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		case errors.Is(err, service.ErrListingUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrOwnRentalForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not rent listing", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, listing)
}

// POST /p2p/rentals/:listing_id/free
func (h *P2PHandler) FreeListing(c *gin.Context) {
	h.releaseListing(c, h.p2pService.FreeListing)
}

// POST /p2p/rentals/:listing_id/pay-and-free
func (h *P2PHandler) PayAndFreeListing(c *gin.Context) {
	h.releaseListing(c, h.p2pService.PayAndFreeListing)
}

func (h *P2PHandler) releaseListing(c *gin.Context, release func(ctx context.Context, renterUserID, listingID int) (*domain.P2PRentalRecord, error)) {
	listingID, err := strconv.Atoi(c.Param("listing_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing ID"})
		return
	}

	record, err := release(c.Request.Context(), middleware.CallerID(c), listingID)
	if err != nil {
		if errors.Is(err, service.ErrRentalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not release listing", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

// GET /p2p/rentals/pending
func (h *P2PHandler) PendingRentalPayments(c *gin.Context) {
	records, err := h.p2pService.PendingRentalPayments(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list pending rental payments"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// POST /p2p/payments/:id/pay
func (h *P2PHandler) PayRental(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment ID"})
		return
	}

	record, err := h.p2pService.PayRental(c.Request.Context(), middleware.CallerID(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending payment with this ID"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record payment", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}
