package mileage

import "github.com/fleetware/fleet-mileage/internal/models"

// Aggregate reduces a list of gaps to summary statistics. Callers must pass
// only unacknowledged gaps; acknowledging a gap therefore changes the
// dashboard numbers on the next computation.
func Aggregate(gaps []models.MileageGap) models.GapStats {
	stats := models.GapStats{TotalGaps: len(gaps)}
	vehicles := make(map[string]struct{})
	for _, g := range gaps {
		stats.TotalUnaccountedKm += g.UnaccountedKm
		switch g.Severity {
		case models.SeverityHigh:
			stats.HighSeverityCount++
		case models.SeverityMedium:
			stats.MediumSeverityCount++
		case models.SeverityLow:
			stats.LowSeverityCount++
		}
		vehicles[g.VehicleID] = struct{}{}
	}
	stats.AffectedVehicles = len(vehicles)
	if stats.TotalGaps > 0 {
		stats.AverageGapSize = stats.TotalUnaccountedKm / float64(stats.TotalGaps)
	}
	return stats
}
