package pricing

import (
	"strings"
	"testing"

	"github.com/Jayesh2422/smartpark/internal/domain"
)

func rankedLot(id int, name string, distance, price float64, total, occupied int) domain.RankedParkingLot {
	return domain.RankedParkingLot{
		ParkingLot: domain.ParkingLot{
			ID:            id,
			Name:          name,
			TotalSlots:    total,
			OccupiedSlots: occupied,
		},
		DistanceKm:          distance,
		DynamicPricePerHour: price,
	}
}

func hasTag(lot domain.RankedParkingLot, tag string) bool {
	for _, t := range lot.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func TestScoreParkingsEmpty(t *testing.T) {
	if got := ScoreParkings(nil, nil); got != nil {
		t.Errorf("ScoreParkings(nil): got %+v, want nil", got)
	}
}

func TestScoreParkingsSingleLotGetsAllTags(t *testing.T) {
	got := ScoreParkings([]domain.RankedParkingLot{rankedLot(1, "Solo", 1.2, 30, 10, 2)}, nil)
	if len(got) != 1 {
		t.Fatalf("got %d lots, want 1", len(got))
	}
	for _, tag := range []string{TagBestOverall, TagCheapest, TagClosest} {
		if !hasTag(got[0], tag) {
			t.Errorf("single lot missing tag %q: %v", tag, got[0].Tags)
		}
	}
}

func TestScoreParkingsExactlyOneBestOverall(t *testing.T) {
	lots := []domain.RankedParkingLot{
		rankedLot(1, "A", 2.0, 40, 10, 8),
		rankedLot(2, "B", 1.0, 20, 10, 2),
		rankedLot(3, "C", 3.0, 30, 10, 5),
	}
	got := ScoreParkings(lots, nil)

	best := 0
	for _, lot := range got {
		if hasTag(lot, TagBestOverall) {
			best++
		}
	}
	if best != 1 {
		t.Errorf("Best Overall count: got %d, want 1", best)
	}
	if !hasTag(got[0], TagBestOverall) {
		t.Error("Best Overall should be the first (lowest score) lot")
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score < got[i-1].Score {
			t.Errorf("not sorted ascending at %d: %v after %v", i, got[i].Score, got[i-1].Score)
		}
	}
}

func TestScoreParkingsAvailabilityLowersScore(t *testing.T) {
	lots := []domain.RankedParkingLot{
		rankedLot(1, "Full", 1.0, 30, 10, 9),
		rankedLot(2, "Empty", 1.0, 30, 10, 0),
	}
	got := ScoreParkings(lots, nil)
	if got[0].Name != "Empty" {
		t.Errorf("more availability should rank first: got %q", got[0].Name)
	}
	if got[0].AvailableCount != 10 {
		t.Errorf("available count: got %d, want 10", got[0].AvailableCount)
	}
}

func TestScoreParkingsCheapestAndClosestTags(t *testing.T) {
	lots := []domain.RankedParkingLot{
		rankedLot(1, "Cheap", 5.0, 10, 10, 9),
		rankedLot(2, "Close", 0.5, 50, 10, 9),
	}
	got := ScoreParkings(lots, nil)

	for _, lot := range got {
		switch lot.Name {
		case "Cheap":
			if !hasTag(lot, TagCheapest) {
				t.Errorf("Cheap missing Cheapest tag: %v", lot.Tags)
			}
		case "Close":
			if !hasTag(lot, TagClosest) {
				t.Errorf("Close missing Closest tag: %v", lot.Tags)
			}
		}
	}
}

func TestScoreParkingsTieKeepsOrder(t *testing.T) {
	lots := []domain.RankedParkingLot{
		rankedLot(1, "First", 1.0, 30, 10, 5),
		rankedLot(2, "Second", 1.0, 30, 10, 5),
	}
	got := ScoreParkings(lots, nil)
	if got[0].Name != "First" {
		t.Errorf("identical lots: got %q first, want First (input order)", got[0].Name)
	}
	if !hasTag(got[0], TagCheapest) || !hasTag(got[0], TagClosest) {
		t.Errorf("on price/distance ties the first occurrence takes the tag: %v", got[0].Tags)
	}
}

func TestScoreParkingsExplanations(t *testing.T) {
	selected := rankedLot(1, "Chosen", 1.0, 50, 10, 10)
	lots := []domain.RankedParkingLot{
		selected,
		rankedLot(2, "Better", 0.4, 30, 10, 2),
		rankedLot(3, "Worse", 4.0, 90, 10, 10),
	}
	got := ScoreParkings(lots, &selected)

	for _, lot := range got {
		switch lot.Name {
		case "Chosen":
			if lot.Explanation != "" {
				t.Errorf("selected lot should carry no explanation, got %q", lot.Explanation)
			}
		case "Better":
			if !strings.Contains(lot.Explanation, "cheaper") || !strings.Contains(lot.Explanation, "closer") {
				t.Errorf("Better explanation: got %q, want cheaper and closer mentioned", lot.Explanation)
			}
			if !strings.Contains(lot.Explanation, "slots available") {
				t.Errorf("Better explanation: got %q, want availability mentioned", lot.Explanation)
			}
		case "Worse":
			if lot.Explanation != "A good alternative nearby." {
				t.Errorf("Worse explanation: got %q, want the generic fallback", lot.Explanation)
			}
		}
	}
}

func TestScoreParkingsRescoringDoesNotAccumulateTags(t *testing.T) {
	lots := []domain.RankedParkingLot{
		rankedLot(1, "A", 1.0, 20, 10, 2),
		rankedLot(2, "B", 2.0, 40, 10, 5),
	}
	first := ScoreParkings(lots, nil)
	got := ScoreParkings(first, &first[0])

	for _, lot := range got {
		seen := map[string]int{}
		for _, tag := range lot.Tags {
			seen[tag]++
		}
		for tag, n := range seen {
			if n != 1 {
				t.Errorf("%s: tag %q appears %d times after rescoring, want 1", lot.Name, tag, n)
			}
		}
	}
	// The already-scored input keeps its own tags untouched.
	if len(first[0].Tags) != 3 {
		t.Errorf("input lot tags mutated by rescoring: %v", first[0].Tags)
	}
}

func TestBestAlternative(t *testing.T) {
	scored := ScoreParkings([]domain.RankedParkingLot{
		rankedLot(1, "Selected", 0.5, 20, 10, 2),
		rankedLot(2, "Full", 1.0, 25, 10, 10),
		rankedLot(3, "Open", 2.0, 30, 10, 4),
	}, nil)

	got := BestAlternative(scored, 1)
	if got == nil {
		t.Fatal("BestAlternative: got nil, want Open")
	}
	if got.Name != "Open" {
		t.Errorf("BestAlternative: got %q, want Open (first non-excluded with free slots)", got.Name)
	}
}

func TestBestAlternativeNone(t *testing.T) {
	scored := ScoreParkings([]domain.RankedParkingLot{
		rankedLot(1, "Selected", 0.5, 20, 10, 2),
		rankedLot(2, "Full", 1.0, 25, 10, 10),
	}, nil)
	if got := BestAlternative(scored, 1); got != nil {
		t.Errorf("BestAlternative with no open lots: got %+v, want nil", got)
	}
}
