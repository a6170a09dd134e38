package pricing

import (
	"fmt"
	"math"

	"github.com/Jayesh2422/smartpark/internal/domain"
)

// DefaultEstimateMinutes is returned when there is no usable history at all.
const DefaultEstimateMinutes = 60

type DurationEstimate struct {
	EstimatedMinutes  int     `json:"estimated_minutes"`
	EstimatedHours    float64 `json:"estimated_hours"`
	FormattedDuration string  `json:"formatted_duration"`
	Confidence        string  `json:"confidence"` // "high", "medium", "low" or "none"
	Message           string  `json:"message"`
}

// EstimateDuration predicts how long a booking will last from past bookings.
// The tiers run in priority order: history at this parking beats general user
// history, which beats parking-wide history; with nothing to go on the
// estimate is a flat hour. parkingID 0 skips the per-parking tier.
func EstimateDuration(userBookings, parkingBookings []domain.BookingDurationSample, parkingID int) DurationEstimate {
	var userAtParking []domain.BookingDurationSample
	if parkingID != 0 {
		for _, b := range userBookings {
			if b.ParkingID == parkingID {
				userAtParking = append(userAtParking, b)
			}
		}
	}

	userAvg := averageDuration(userBookings)
	userAtParkingAvg := averageDuration(userAtParking)
	parkingAvg := averageDuration(parkingBookings)

	var estimatedMinutes int
	var confidence, message string

	switch {
	case userAtParkingAvg > 0:
		estimatedMinutes = int(math.Round(userAtParkingAvg*0.6 + userAvg*0.3 + parkingAvg*0.1))
		confidence = "high"
		message = fmt.Sprintf("You usually park for %s here.", FormatDuration(estimatedMinutes))
	case userAvg > 0:
		estimatedMinutes = int(math.Round(userAvg*0.7 + parkingAvg*0.3))
		confidence = "medium"
		message = fmt.Sprintf("You usually park for %s.", FormatDuration(estimatedMinutes))
	case parkingAvg > 0:
		estimatedMinutes = int(math.Round(parkingAvg))
		confidence = "low"
		message = fmt.Sprintf("Most people park for %s here.", FormatDuration(estimatedMinutes))
	default:
		estimatedMinutes = DefaultEstimateMinutes
		confidence = "none"
		message = "No history available. Estimated 1 hour."
	}

	return DurationEstimate{
		EstimatedMinutes:  estimatedMinutes,
		EstimatedHours:    round1(float64(estimatedMinutes) / 60),
		FormattedDuration: FormatDuration(estimatedMinutes),
		Confidence:        confidence,
		Message:           message,
	}
}

// averageDuration ignores samples with a non-positive duration.
func averageDuration(samples []domain.BookingDurationSample) float64 {
	total, count := 0, 0
	for _, s := range samples {
		if s.DurationMinutes > 0 {
			total += s.DurationMinutes
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// FormatDuration renders minutes as "2h 30m", "2h" or "45m". Non-positive
// values render as "0m".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	hrs := minutes / 60
	mins := minutes % 60

	switch {
	case hrs == 0:
		return fmt.Sprintf("%dm", mins)
	case mins == 0:
		return fmt.Sprintf("%dh", hrs)
	default:
		return fmt.Sprintf("%dh %dm", hrs, mins)
	}
}
