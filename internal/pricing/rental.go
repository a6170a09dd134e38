package pricing

import (
	"math"

	"github.com/Jayesh2422/smartpark/internal/domain"
)

// RentalAmount resolves what a P2P rental costs when it is released. A stored
// positive total wins outright. Otherwise the charge follows the listing's
// duration mode and unit count; with no mode recorded it falls back to bands
// on the elapsed rental window (over a month bills monthly, over a day daily,
// anything shorter hourly), each unit count at least 1.
func RentalAmount(listing domain.P2PListing) float64 {
	if stored := sanitize(listing.RentalTotalPrice.ValueOrZero()); stored > 0 {
		return round2(stored)
	}

	var elapsed float64 // hours
	if listing.RentalStartTime.Valid && listing.RentalEndTime.Valid {
		elapsed = listing.RentalEndTime.Time.Sub(listing.RentalStartTime.Time).Hours()
		if elapsed < 0 {
			elapsed = 0
		}
	}

	hours := math.Max(1, math.Ceil(elapsed))
	days := math.Max(1, math.Ceil(elapsed/24))
	months := math.Max(1, math.Ceil(days/30))
	units := math.Max(1, math.Round(sanitize(float64(listing.RentalUnits.ValueOrZero()))))

	switch domain.RentalDurationMode(listing.RentalDurationMode.ValueOrZero()) {
	case domain.RentalHourly:
		return round2(sanitize(listing.HourlyPrice) * units)
	case domain.RentalMonthly:
		return round2(sanitize(listing.MonthlyPrice) * units)
	case domain.RentalDaily, domain.RentalRange:
		return round2(sanitize(listing.DailyPrice) * units)
	}

	switch {
	case elapsed > 30*24:
		return round2(sanitize(listing.MonthlyPrice) * months)
	case elapsed > 24:
		return round2(sanitize(listing.DailyPrice) * days)
	default:
		return round2(sanitize(listing.HourlyPrice) * hours)
	}
}
