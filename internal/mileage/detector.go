package mileage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fleetware/fleet-mileage/internal/db"
	"github.com/fleetware/fleet-mileage/internal/models"
)

// Detector scans trip histories for unaccounted mileage: adjacent trips
// where the later one starts past where the earlier one ended.
type Detector struct {
	cfg      Config
	trips    db.TripCollection
	vehicles db.VehicleCollection
}

// NewDetector creates a detector over the given trip and vehicle stores.
func NewDetector(cfg Config, trips db.TripCollection, vehicles db.VehicleCollection) *Detector {
	return &Detector{cfg: cfg, trips: trips, vehicles: vehicles}
}

// DetectVehicle computes the gaps for a single vehicle. A store read failure
// here is propagated to the caller; there is no other vehicle to fall back
// on.
func (d *Detector) DetectVehicle(ctx context.Context, companyID, vehicleID, vehicleName string) ([]models.MileageGap, error) {
	trips, err := d.trips.FindTripsByVehicle(ctx, companyID, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list trips for vehicle %s: %w", vehicleID, err)
	}
	return d.Scan(trips, vehicleName), nil
}

// DetectCompany computes gaps across the whole fleet. Vehicles are scanned
// concurrently; a read failure for one vehicle is logged and skipped so it
// cannot hide gaps detected elsewhere. The merged list is ordered by
// severity, largest gaps first within each severity.
func (d *Detector) DetectCompany(ctx context.Context, companyID string) ([]models.MileageGap, error) {
	vehicles, err := d.vehicles.FindVehiclesByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles for company %s: %w", companyID, err)
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		gaps []models.MileageGap
	)
	for _, vehicle := range vehicles {
		wg.Add(1)
		go func(v models.Vehicle) {
			defer wg.Done()
			found, err := d.DetectVehicle(ctx, companyID, v.ID.Hex(), v.DisplayName())
			if err != nil {
				log.WithError(err).WithFields(log.Fields{
					"company_id": companyID,
					"vehicle_id": v.ID.Hex(),
				}).Warn("Skipping vehicle in company-wide gap scan")
				return
			}
			mu.Lock()
			gaps = append(gaps, found...)
			mu.Unlock()
		}(vehicle)
	}
	wg.Wait()

	SortGaps(gaps)
	return gaps, nil
}

// Scan walks one vehicle's trips in chronological order and emits a gap for
// every adjacent pair whose start reading exceeds the previous end reading.
// It is pure: no I/O, no side effects. Fewer than two trips yield no gaps.
func (d *Detector) Scan(trips []models.TripRecord, vehicleName string) []models.MileageGap {
	if len(trips) < 2 {
		return nil
	}
	sorted := make([]models.TripRecord, len(trips))
	copy(sorted, trips)
	sortTripsChronologically(sorted)

	var gaps []models.MileageGap
	prev := sorted[0]
	for _, curr := range sorted[1:] {
		gap := curr.StartMileage - prev.EndMileage
		if gap > 0 {
			gaps = append(gaps, models.MileageGap{
				PreviousTripID:      prev.ID,
				CurrentTripID:       curr.ID,
				VehicleID:           curr.VehicleID,
				VehicleName:         vehicleName,
				PreviousEndMileage:  prev.EndMileage,
				CurrentStartMileage: curr.StartMileage,
				UnaccountedKm:       gap,
				DaysBetween:         daysBetween(prev.Date, curr.Date),
				PreviousDate:        prev.Date,
				CurrentDate:         curr.Date,
				Severity:            d.cfg.severityFor(gap),
			})
		}
		prev = curr
	}
	return gaps
}

// severityFor buckets a gap size. Boundaries are inclusive on the lower
// bucket: exactly MediumGapKm is still low, exactly HighGapKm still medium.
func (cfg Config) severityFor(gap float64) models.Severity {
	switch {
	case gap > cfg.HighGapKm:
		return models.SeverityHigh
	case gap > cfg.MediumGapKm:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// SortGaps orders gaps by severity descending, then unaccounted km
// descending.
func SortGaps(gaps []models.MileageGap) {
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].Severity.Rank() != gaps[j].Severity.Rank() {
			return gaps[i].Severity.Rank() > gaps[j].Severity.Rank()
		}
		return gaps[i].UnaccountedKm > gaps[j].UnaccountedKm
	})
}

// sortTripsChronologically orders by date ascending with a stable tie-break
// on record creation order.
func sortTripsChronologically(trips []models.TripRecord) {
	sort.SliceStable(trips, func(i, j int) bool {
		if !trips[i].Date.Equal(trips[j].Date) {
			return trips[i].Date.Before(trips[j].Date)
		}
		return trips[i].CreatedAt.Before(trips[j].CreatedAt)
	})
}

// daysBetween returns the calendar distance between two trip dates, rounded
// up. Same-day or out-of-order pairs count as zero days.
func daysBetween(prev, curr time.Time) int {
	delta := curr.Sub(prev)
	if delta <= 0 {
		return 0
	}
	days := int(delta / (24 * time.Hour))
	if delta%(24*time.Hour) != 0 {
		days++
	}
	return days
}
