package polls

import "math"

// Percentage returns the whole-percent share of votes out of total,
// rounded half-up. A poll with no votes reports 0 for every option.
// Percentages across a poll's options need not sum to exactly 100;
// each option rounds independently.
func Percentage(votes, total int64) int {
	if total <= 0 {
		return 0
	}

	return int(math.Round(float64(votes) / float64(total) * 100))
}
