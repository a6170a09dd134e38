package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Jayesh2422/smartpark/internal/api/handler"
	"github.com/Jayesh2422/smartpark/internal/api/middleware"
	"github.com/Jayesh2422/smartpark/internal/service"
)

type Services struct {
	Auth    *service.AuthService
	Parking *service.ParkingService
	Booking *service.BookingService
	Vehicle *service.VehicleService
	P2P     *service.P2PService
}

func SetupRouter(svc Services, authMw *middleware.AuthMiddleware, wsHandler *handler.WebSocketHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Availability updates stream without auth so the map view works before
	// sign-in.
	r.GET("/ws", wsHandler.HandleWebSocket)

	authHandler := handler.NewAuthHandler(svc.Auth)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/request-otp", authHandler.RequestOTP)
		authRoutes.POST("/verify-otp", authHandler.VerifyOTP)
	}

	v1 := r.Group("/api/v1")
	v1.Use(authMw.Authenticate())
	{
		lotH := handler.NewParkingLotHandler(svc.Parking)
		slotH := handler.NewParkingSlotHandler(svc.Parking)
		lotRoutes := v1.Group("/parkings")
		{
			lotRoutes.POST("", authMw.AuthorizeRole("admin"), lotH.CreateParkingLot)
			lotRoutes.GET("", lotH.GetAllParkingLots)
			lotRoutes.GET("/nearby", lotH.NearbyParkings)
			lotRoutes.GET("/:id", lotH.GetParkingLotByID)
			lotRoutes.PUT("/:id", authMw.AuthorizeRole("admin"), lotH.UpdateParkingLot)
			lotRoutes.DELETE("/:id", authMw.AuthorizeRole("admin"), lotH.DeleteParkingLot)
			lotRoutes.GET("/:id/quote", lotH.Quote)
			lotRoutes.GET("/:id/alternatives", lotH.Alternatives)
			lotRoutes.POST("/:id/allocate-slot", lotH.AllocateSlot)
			lotRoutes.POST("/:id/slots", authMw.AuthorizeRole("admin"), slotH.CreateParkingSlot)
			lotRoutes.GET("/:id/slots", slotH.GetSlotsByParkingID)
		}

		slotRoutes := v1.Group("/parking-slots")
		{
			slotRoutes.GET("/:slot_id", slotH.GetParkingSlotByID)
			slotRoutes.PUT("/:slot_id", authMw.AuthorizeRole("admin"), slotH.UpdateParkingSlot)
			slotRoutes.DELETE("/:slot_id", authMw.AuthorizeRole("admin"), slotH.DeleteParkingSlot)
		}

		holidayH := handler.NewHolidayHandler(svc.Parking)
		holidayRoutes := v1.Group("/holidays")
		{
			holidayRoutes.POST("", authMw.AuthorizeRole("admin"), holidayH.CreateHoliday)
			holidayRoutes.GET("", holidayH.GetAllHolidays)
			holidayRoutes.GET("/upcoming", holidayH.UpcomingHolidays)
			holidayRoutes.PUT("/:id", authMw.AuthorizeRole("admin"), holidayH.UpdateHoliday)
			holidayRoutes.DELETE("/:id", authMw.AuthorizeRole("admin"), holidayH.DeleteHoliday)
		}

		vehicleH := handler.NewVehicleHandler(svc.Vehicle)
		vehicleRoutes := v1.Group("/vehicles")
		{
			vehicleRoutes.POST("", vehicleH.CreateVehicle)
			vehicleRoutes.GET("", vehicleH.GetVehicles)
			vehicleRoutes.GET("/default", vehicleH.GetDefaultVehicle)
			vehicleRoutes.PUT("/:id", vehicleH.UpdateVehicle)
			vehicleRoutes.DELETE("/:id", vehicleH.DeleteVehicle)
		}

		bookingH := handler.NewBookingHandler(svc.Booking)
		bookingRoutes := v1.Group("/bookings")
		{
			bookingRoutes.POST("", bookingH.CreateBooking)
			bookingRoutes.GET("", bookingH.ActiveBookings)
			bookingRoutes.GET("/history", bookingH.BookingHistory)
			bookingRoutes.GET("/pending-payments", bookingH.PendingPayments)
			bookingRoutes.GET("/estimate", bookingH.EstimateDuration)
			bookingRoutes.POST("/pay", bookingH.Pay)
			bookingRoutes.POST("/:id/complete", bookingH.CompleteBooking)
			bookingRoutes.POST("/:id/cancel", bookingH.CancelBooking)
			bookingRoutes.POST("/:id/free", bookingH.FreeSlot)
		}

		p2pH := handler.NewP2PHandler(svc.P2P)
		p2pRoutes := v1.Group("/p2p")
		{
			p2pRoutes.GET("/listings", p2pH.AvailableListings)
			p2pRoutes.GET("/listings/mine", p2pH.MyListings)
			p2pRoutes.POST("/listings", p2pH.CreateListing)
			p2pRoutes.PUT("/listings/:id", p2pH.UpdateListing)
			p2pRoutes.GET("/rentals", p2pH.MyActiveRentals)
			p2pRoutes.GET("/rentals/pending", p2pH.PendingRentalPayments)
			p2pRoutes.POST("/rentals/:listing_id/rent", p2pH.RentListing)
			p2pRoutes.POST("/rentals/:listing_id/free", p2pH.FreeListing)
			p2pRoutes.POST("/rentals/:listing_id/pay-and-free", p2pH.PayAndFreeListing)
			p2pRoutes.POST("/payments/:id/pay", p2pH.PayRental)
		}
	}
	return r
}
