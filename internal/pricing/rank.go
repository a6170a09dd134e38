package pricing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Jayesh2422/smartpark/internal/domain"
)

const (
	TagBestOverall = "Best Overall"
	TagCheapest    = "Cheapest"
	TagClosest     = "Closest"
)

// Ranker weights. Availability is subtracted: more free slots lowers the
// score, and lower is better everywhere in this app.
const (
	rankDistanceWeight     = 0.4
	rankPriceWeight        = 0.3
	rankAvailabilityWeight = 0.3
)

// ScoreParkings scores every candidate lot against the others, sorts them best
// first and tags the winners. Distance and dynamic price must already be
// attached (see FilterByRadius and ComputePrice). When selected is given,
// every other lot gets an explanation comparing it to the selection.
func ScoreParkings(lots []domain.RankedParkingLot, selected *domain.RankedParkingLot) []domain.RankedParkingLot {
	if len(lots) == 0 {
		return nil
	}

	scored := make([]domain.RankedParkingLot, len(lots))
	copy(scored, lots)

	maxDistance, maxPrice, maxSlots := 1.0, 1.0, 1.0
	for i := range scored {
		// Rescoring an already-scored slice must not accumulate tags or keep
		// a stale explanation, and appending below must not alias the
		// caller's backing array.
		scored[i].Tags = nil
		scored[i].Explanation = ""
		scored[i].AvailableCount = scored[i].ParkingLot.AvailableSlots()
		if d := sanitize(scored[i].DistanceKm); d > maxDistance {
			maxDistance = d
		}
		if p := sanitize(scored[i].DynamicPricePerHour); p > maxPrice {
			maxPrice = p
		}
		if a := float64(scored[i].AvailableCount); a > maxSlots {
			maxSlots = a
		}
	}

	for i := range scored {
		normalizedDistance := sanitize(scored[i].DistanceKm) / maxDistance
		normalizedPrice := sanitize(scored[i].DynamicPricePerHour) / maxPrice
		normalizedAvailability := float64(scored[i].AvailableCount) / maxSlots

		score := normalizedDistance*rankDistanceWeight +
			normalizedPrice*rankPriceWeight -
			normalizedAvailability*rankAvailabilityWeight
		scored[i].Score = round3(score)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score < scored[j].Score
	})

	scored[0].Tags = append(scored[0].Tags, TagBestOverall)

	cheapest := 0
	closest := 0
	for i := 1; i < len(scored); i++ {
		if scored[i].DynamicPricePerHour < scored[cheapest].DynamicPricePerHour {
			cheapest = i
		}
		if scored[i].DistanceKm < scored[closest].DistanceKm {
			closest = i
		}
	}
	scored[cheapest].Tags = append(scored[cheapest].Tags, TagCheapest)
	scored[closest].Tags = append(scored[closest].Tags, TagClosest)

	if selected != nil {
		for i := range scored {
			if scored[i].ID != selected.ID {
				scored[i].Explanation = explanation(scored[i], *selected)
			}
		}
	}
	return scored
}

// BestAlternative returns the first lot in score order that is not the
// excluded one and still has free slots, or nil when there is none.
func BestAlternative(scored []domain.RankedParkingLot, excludeID int) *domain.RankedParkingLot {
	for i := range scored {
		if scored[i].ID == excludeID {
			continue
		}
		if scored[i].AvailableCount > 0 {
			return &scored[i]
		}
	}
	return nil
}

func explanation(alternative, selected domain.RankedParkingLot) string {
	var parts []string

	if priceDiff := selected.DynamicPricePerHour - alternative.DynamicPricePerHour; priceDiff > 0 {
		parts = append(parts, fmt.Sprintf("₹%d cheaper", int(math.Round(priceDiff))))
	}
	if distDiff := selected.DistanceKm - alternative.DistanceKm; distDiff > 0 {
		parts = append(parts, fmt.Sprintf("%.1fkm closer", distDiff))
	}
	if alternative.AvailableCount > selected.ParkingLot.AvailableSlots() {
		parts = append(parts, fmt.Sprintf("%d slots available", alternative.AvailableCount))
	}

	if len(parts) == 0 {
		return "A good alternative nearby."
	}
	return fmt.Sprintf("%s is %s.", alternative.Name, strings.Join(parts, " and "))
}
