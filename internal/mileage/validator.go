package mileage

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fleetware/fleet-mileage/internal/db"
	"github.com/fleetware/fleet-mileage/internal/models"
)

// Reason identifies why a candidate trip was rejected.
type Reason string

const (
	ReasonNotNumeric          Reason = "not_numeric"
	ReasonEndNotAfterStart    Reason = "end_not_after_start"
	ReasonOdometerRegression  Reason = "odometer_regression"
	ReasonBackdatedEntry      Reason = "backdated_entry"
	ReasonImplausibleDistance Reason = "implausible_distance"
)

// Warning codes for anomalies that are accepted but surfaced to the operator.
const (
	WarnLargeJump = "large_jump"
	WarnLongTrip  = "long_trip"
)

// Warning is a non-blocking consistency flag on a valid result.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the outcome of validating a candidate trip's mileage fields.
// An invalid result carries a Reason and a human-readable message; a valid
// result may still carry warnings.
type Result struct {
	Valid    bool      `json:"valid"`
	Reason   Reason    `json:"reason,omitempty"`
	Message  string    `json:"message,omitempty"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Input is a candidate trip's mileage fields plus the chronologically
// preceding trip for the same vehicle. Previous is nil for the vehicle's
// first trip ever, in which case there is no lower bound on the start
// reading.
type Input struct {
	StartMileage float64
	EndMileage   float64
	Date         time.Time
	Previous     *models.TripRecord
}

// Validator decides whether a proposed trip's mileage is acceptable given
// the vehicle's history. The live check and the strict pre-create check
// apply the same rules but differ on implausibly long trips: live surfaces
// a warning, strict rejects.
type Validator struct {
	cfg   Config
	trips db.TripCollection
}

// NewValidator creates a validator backed by the given trip store.
func NewValidator(cfg Config, trips db.TripCollection) *Validator {
	return &Validator{cfg: cfg, trips: trips}
}

// CheckLive runs the interactive validation used while a form is being
// filled. It is pure over its input; the caller supplies the preceding trip.
func (v *Validator) CheckLive(in Input) Result {
	return v.check(in, false)
}

// CheckStrict runs the full pre-create validation over already-fetched data.
func (v *Validator) CheckStrict(in Input) Result {
	return v.check(in, true)
}

// ValidateNew runs the strict check for a trip about to be created, looking
// up the vehicle's preceding trip by the candidate's date.
func (v *Validator) ValidateNew(ctx context.Context, trip models.TripRecord) (Result, error) {
	return v.validate(ctx, trip, "")
}

// ValidateEdit runs the strict check for a trip being edited. The trip is
// excluded from serving as its own predecessor, and the lookup honors the
// trip's possibly changed date rather than its original one.
func (v *Validator) ValidateEdit(ctx context.Context, trip models.TripRecord) (Result, error) {
	return v.validate(ctx, trip, trip.ID.Hex())
}

func (v *Validator) validate(ctx context.Context, trip models.TripRecord, excludeID string) (Result, error) {
	prev, err := v.trips.FindPrecedingTrip(ctx, trip.CompanyID, trip.VehicleID, trip.Date, excludeID)
	if err != nil {
		return Result{}, fmt.Errorf("find preceding trip: %w", err)
	}
	in := Input{
		StartMileage: trip.StartMileage,
		EndMileage:   trip.EndMileage,
		Date:         trip.Date,
		Previous:     prev,
	}
	return v.check(in, true), nil
}

func (v *Validator) check(in Input, strict bool) Result {
	if !isMileage(in.StartMileage) || !isMileage(in.EndMileage) {
		return invalid(ReasonNotNumeric, "mileage must be a non-negative number")
	}
	if in.EndMileage <= in.StartMileage {
		return invalid(ReasonEndNotAfterStart, "end mileage must be greater than start mileage")
	}
	if in.Previous != nil {
		if in.StartMileage < in.Previous.EndMileage {
			return invalid(ReasonOdometerRegression, fmt.Sprintf(
				"start mileage %.1f is below the previous trip's end mileage %.1f",
				in.StartMileage, in.Previous.EndMileage))
		}
		if !in.Date.IsZero() && !in.Previous.Date.IsZero() && in.Date.Before(in.Previous.Date) {
			return invalid(ReasonBackdatedEntry, "trip date is earlier than the previous trip for this vehicle")
		}
	}

	distance := in.EndMileage - in.StartMileage
	if strict && distance > v.cfg.MaxTripKm {
		return invalid(ReasonImplausibleDistance, fmt.Sprintf(
			"distance of %.1f km is implausible for a single trip (limit %.0f km)",
			distance, v.cfg.MaxTripKm))
	}

	res := Result{Valid: true}
	if !strict && distance > v.cfg.MaxTripKm {
		res.Warnings = append(res.Warnings, Warning{
			Code: WarnLongTrip,
			Message: fmt.Sprintf("distance of %.1f km is unusually long for a single trip",
				distance),
		})
	}
	if in.Previous != nil {
		if jump := in.StartMileage - in.Previous.EndMileage; jump > v.cfg.LargeJumpKm {
			res.Warnings = append(res.Warnings, Warning{
				Code: WarnLargeJump,
				Message: fmt.Sprintf("start mileage jumps %.1f km past the previous trip; please confirm the reading",
					jump),
			})
		}
	}
	return res
}

func invalid(reason Reason, message string) Result {
	return Result{Valid: false, Reason: reason, Message: message}
}

// isMileage rejects NaN, infinities and negative readings.
func isMileage(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}
