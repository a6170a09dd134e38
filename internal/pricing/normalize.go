// Package pricing holds the scoring, allocation and price computation rules of
// the app. Every function here is pure: it reads the records it is given and
// returns derived values, so the service layer can call them in any order and
// the same inputs always produce the same output.
package pricing

import "math"

// sanitize normalizes a magnitude before it enters a formula. Absent fields
// arrive as zero values and bad rows can carry negatives or non-finite numbers;
// all of them are treated as 0 so a single row cannot poison a whole ranking.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
