package pricing

import (
	"math"
	"sort"

	"github.com/Jayesh2422/smartpark/internal/domain"
)

const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance between two coordinates using
// the haversine formula, rounded to 2 decimal places.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return round2(earthRadiusKm * c)
}

func toRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// FilterByRadius attaches the distance from the center to every lot, keeps the
// ones within radiusKm and returns them sorted nearest first.
func FilterByRadius(lots []domain.ParkingLot, centerLat, centerLng, radiusKm float64) []domain.RankedParkingLot {
	var within []domain.RankedParkingLot
	for _, lot := range lots {
		d := DistanceKm(centerLat, centerLng, lot.Lat, lot.Lng)
		if d <= radiusKm {
			within = append(within, domain.RankedParkingLot{ParkingLot: lot, DistanceKm: d})
		}
	}
	sort.SliceStable(within, func(i, j int) bool {
		return within[i].DistanceKm < within[j].DistanceKm
	})
	return within
}
