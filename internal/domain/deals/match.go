package deals

import "time"

// SelectBest scans deals once and returns the applicable one with the lowest
// nightly rate. A deal must undercut baseRate to win; ties keep the first seen.
// With no winner it returns (nil, baseRate).
func SelectBest(roomType string, date time.Time, baseRate float64, list []Deal) (*Deal, float64) {
	var (
		best     *Deal
		bestRate = baseRate
	)
	for i := range list {
		if !list[i].Applicable(roomType, date) {
			continue
		}
		if rate := list[i].CandidateRate(baseRate); rate < bestRate {
			best = &list[i]
			bestRate = rate
		}
	}
	if best == nil {
		return nil, baseRate
	}
	found := *best
	return &found, bestRate
}
