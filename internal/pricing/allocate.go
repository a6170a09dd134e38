package pricing

import (
	"sort"

	"github.com/Jayesh2422/smartpark/internal/domain"
)

// Ordinal size ranks. Unknown sizes fall back to the car rank.
var sizeRank = map[string]int{
	string(domain.SizeBike): 1,
	string(domain.SizeCar):  2,
	string(domain.SizeSUV):  3,
}

func rankOf(size string) int {
	if r, ok := sizeRank[size]; ok {
		return r
	}
	return 2
}

// Allocation weights: fit matters most, then walk distance, then floor
// convenience for the stay length.
const (
	sizeWeight     = 0.5
	distanceWeight = 0.3
	durationWeight = 0.2
)

type SlotScoreBreakdown struct {
	SizeCompatibility   float64 `json:"size_compatibility"`
	DistanceFactor      float64 `json:"distance_factor"`
	DurationSuitability float64 `json:"duration_suitability"`
}

type AllocatedSlot struct {
	domain.ParkingSlot
	Score          float64            `json:"score"`
	ScoreBreakdown SlotScoreBreakdown `json:"score_breakdown"`
}

// AllocateBestSlot picks the lowest-scoring available slot for the vehicle and
// stay length. It returns nil when no slot is available; that is the only
// failure signal. Ties keep the input order, which follows slot numbering.
func AllocateBestSlot(slots []domain.ParkingSlot, vehicleType domain.VehicleType, durationHours float64) *AllocatedSlot {
	var available []domain.ParkingSlot
	for _, s := range slots {
		if s.Status == domain.SlotAvailable {
			available = append(available, s)
		}
	}
	if len(available) == 0 {
		return nil
	}

	maxDistance := 0.0
	for _, s := range available {
		if d := sanitize(s.DistanceFromEntranceM); d > maxDistance {
			maxDistance = d
		}
	}
	if maxDistance == 0 {
		maxDistance = 1
	}

	scored := make([]AllocatedSlot, 0, len(available))
	for _, s := range available {
		breakdown := SlotScoreBreakdown{
			SizeCompatibility:   sizeCompatibility(s.Size, vehicleType),
			DistanceFactor:      sanitize(s.DistanceFromEntranceM) / maxDistance,
			DurationSuitability: durationSuitability(s.Floor, durationHours),
		}
		score := breakdown.SizeCompatibility*sizeWeight +
			breakdown.DistanceFactor*distanceWeight +
			breakdown.DurationSuitability*durationWeight
		scored = append(scored, AllocatedSlot{
			ParkingSlot:    s,
			Score:          round3(score),
			ScoreBreakdown: breakdown,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score < scored[j].Score
	})
	return &scored[0]
}

// sizeCompatibility scores how well a slot size hosts a vehicle: 0 for an
// exact fit, 0.3 for an oversized slot, 1.0 for an undersized one. Undersized
// slots stay in the running as a last resort instead of being filtered out.
func sizeCompatibility(slotSize domain.SlotSize, vehicleType domain.VehicleType) float64 {
	slotRank := rankOf(string(slotSize))
	vehicleRank := rankOf(string(vehicleType))

	switch {
	case slotRank == vehicleRank:
		return 0
	case slotRank > vehicleRank:
		return 0.3
	default:
		return 1.0
	}
}

// durationSuitability penalizes upper floors, hardest for short stays where
// convenience dominates.
func durationSuitability(floor int, durationHours float64) float64 {
	f := sanitize(float64(floor))
	switch {
	case durationHours <= 1:
		return f * 0.5
	case durationHours <= 3:
		return f * 0.3
	default:
		return f * 0.1
	}
}

// CompatibleSlots returns the available slots that can physically host the
// vehicle (slot rank at or above the vehicle rank), for display counts.
func CompatibleSlots(slots []domain.ParkingSlot, vehicleType domain.VehicleType) []domain.ParkingSlot {
	vehicleRank := rankOf(string(vehicleType))
	var compatible []domain.ParkingSlot
	for _, s := range slots {
		if s.Status != domain.SlotAvailable {
			continue
		}
		if rankOf(string(s.Size)) >= vehicleRank {
			compatible = append(compatible, s)
		}
	}
	return compatible
}
