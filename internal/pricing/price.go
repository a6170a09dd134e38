package pricing

import "math"

// Pricing factor thresholds. The occupancy band [0.30, 0.80] is a deliberate
// dead zone with neither surge nor discount.
const (
	weekendSurge       = 1.2
	highOccupancyRate  = 0.8
	highOccupancySurge = 1.2
	lowOccupancyRate   = 0.3
	lowOccupancyRebate = 0.9
	longStayHours      = 3
	longStayDiscount   = 0.95
)

// PriceBreakdown carries every factor that went into a quote so the client can
// show the math and tests can pin each multiplier independently.
type PriceBreakdown struct {
	BasePrice              float64 `json:"base_price"`
	HolidayFactor          float64 `json:"holiday_factor"`
	WeekendFactor          float64 `json:"weekend_factor"`
	OccupancyFactor        float64 `json:"occupancy_factor"`
	OccupancyRatePercent   int     `json:"occupancy_rate"`
	DurationDiscountFactor float64 `json:"duration_discount"`
	DurationHours          float64 `json:"duration_hours"`
}

type PriceQuote struct {
	FinalPrice   float64        `json:"final_price"`
	PricePerHour float64        `json:"price_per_hour"`
	Breakdown    PriceBreakdown `json:"breakdown"`
}

// ComputePrice multiplies the base hourly price by the holiday, weekend,
// occupancy and long-stay factors. A lot with zero total slots counts as
// empty rather than dividing by zero.
func ComputePrice(basePrice, durationHours, holidayMultiplier float64, isWeekend bool, occupiedSlots, totalSlots int) PriceQuote {
	basePrice = sanitize(basePrice)
	durationHours = sanitize(durationHours)

	holidayFactor := holidayMultiplier
	if holidayFactor <= 0 || math.IsNaN(holidayFactor) || math.IsInf(holidayFactor, 0) {
		holidayFactor = 1.0
	}

	weekendFactor := 1.0
	if isWeekend {
		weekendFactor = weekendSurge
	}

	occupancyRate := 0.0
	if totalSlots > 0 && occupiedSlots > 0 {
		occupancyRate = float64(occupiedSlots) / float64(totalSlots)
	}
	occupancyFactor := 1.0
	if occupancyRate > highOccupancyRate {
		occupancyFactor = highOccupancySurge
	} else if occupancyRate < lowOccupancyRate {
		occupancyFactor = lowOccupancyRebate
	}

	durationDiscount := 1.0
	if durationHours > longStayHours {
		durationDiscount = longStayDiscount
	}

	pricePerHour := round2(basePrice * holidayFactor * weekendFactor * occupancyFactor * durationDiscount)

	// The total is the displayed hourly rate times the hours, so the two
	// figures always agree on a receipt. Multiplying before rounding can be
	// a cent off from this.
	return PriceQuote{
		FinalPrice:   round2(pricePerHour * durationHours),
		PricePerHour: pricePerHour,
		Breakdown: PriceBreakdown{
			BasePrice:              basePrice,
			HolidayFactor:          holidayFactor,
			WeekendFactor:          weekendFactor,
			OccupancyFactor:        occupancyFactor,
			OccupancyRatePercent:   int(math.Round(occupancyRate * 100)),
			DurationDiscountFactor: durationDiscount,
			DurationHours:          durationHours,
		},
	}
}
