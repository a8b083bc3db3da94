package mileage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fleetware/fleet-mileage/internal/models"
)

func sampleGap() models.MileageGap {
	return models.MileageGap{
		PreviousTripID: primitive.NewObjectID(),
		CurrentTripID:  primitive.NewObjectID(),
		VehicleID:      "veh-1",
		UnaccountedKm:  200,
		Severity:       models.SeverityMedium,
	}
}

func TestLedger_AcknowledgeAndLookup(t *testing.T) {
	store := newFakeAckStore()
	ledger := NewLedger(store)
	gap := sampleGap()

	acked, err := ledger.IsAcknowledged(context.Background(), gap.GapID())
	require.NoError(t, err)
	assert.False(t, acked)

	err = ledger.Acknowledge(context.Background(), "co-1", gap.GapID(), "user-1", "vehicle moved between depots")
	require.NoError(t, err)

	acked, err = ledger.IsAcknowledged(context.Background(), gap.GapID())
	require.NoError(t, err)
	assert.True(t, acked)

	saved := store.acks[gap.GapID()]
	assert.Equal(t, "co-1", saved.CompanyID)
	assert.Equal(t, "user-1", saved.ReviewerID)
	assert.Equal(t, "vehicle moved between depots", saved.Note)
	assert.False(t, saved.AcknowledgedAt.IsZero())
}

func TestLedger_RepeatAcknowledgeOverwrites(t *testing.T) {
	store := newFakeAckStore()
	ledger := NewLedger(store)
	gap := sampleGap()

	require.NoError(t, ledger.Acknowledge(context.Background(), "co-1", gap.GapID(), "user-1", "first note"))
	require.NoError(t, ledger.Acknowledge(context.Background(), "co-1", gap.GapID(), "user-2", "second note"))

	assert.Len(t, store.acks, 1)
	saved := store.acks[gap.GapID()]
	assert.Equal(t, "user-2", saved.ReviewerID)
	assert.Equal(t, "second note", saved.Note)
}

func TestLedger_AcknowledgeRequiresGapID(t *testing.T) {
	ledger := NewLedger(newFakeAckStore())

	err := ledger.Acknowledge(context.Background(), "co-1", "", "user-1", "")
	assert.Error(t, err)
}

func TestLedger_FilterUnacknowledged(t *testing.T) {
	store := newFakeAckStore()
	ledger := NewLedger(store)

	reviewed := sampleGap()
	open := sampleGap()
	require.NoError(t, ledger.Acknowledge(context.Background(), "co-1", reviewed.GapID(), "user-1", ""))

	out := ledger.FilterUnacknowledged(context.Background(), []models.MileageGap{reviewed, open})
	require.Len(t, out, 1)
	assert.Equal(t, open.GapID(), out[0].GapID())
}

func TestLedger_FilterKeepsGapWhenLookupFails(t *testing.T) {
	store := newFakeAckStore()
	store.findErr = assert.AnError
	ledger := NewLedger(store)

	gap := sampleGap()
	out := ledger.FilterUnacknowledged(context.Background(), []models.MileageGap{gap})
	require.Len(t, out, 1)
	assert.Equal(t, gap.GapID(), out[0].GapID())
}

// Acknowledging every gap empties the dashboard numbers on the next scan.
func TestLedger_RoundTripWithDetectorAndStats(t *testing.T) {
	trips := newFakeTripStore()
	trips.add(trip("veh-1", day(2025, 3, 1), 1000, 1100))
	trips.add(trip("veh-1", day(2025, 3, 3), 1400, 1500))
	trips.add(trip("veh-1", day(2025, 3, 6), 2200, 2300))

	detector := NewDetector(DefaultConfig(), trips, &fakeVehicleStore{})
	ledger := NewLedger(newFakeAckStore())

	gaps, err := detector.DetectVehicle(context.Background(), "co-1", "veh-1", "")
	require.NoError(t, err)
	require.Len(t, gaps, 2)

	before := Aggregate(ledger.FilterUnacknowledged(context.Background(), gaps))
	assert.Equal(t, 2, before.TotalGaps)
	assert.Equal(t, 1000.0, before.TotalUnaccountedKm)

	for _, g := range gaps {
		require.NoError(t, ledger.Acknowledge(context.Background(), "co-1", g.GapID(), "user-1", ""))
	}

	gaps, err = detector.DetectVehicle(context.Background(), "co-1", "veh-1", "")
	require.NoError(t, err)
	after := Aggregate(ledger.FilterUnacknowledged(context.Background(), gaps))
	assert.Equal(t, 0, after.TotalGaps)
	assert.Equal(t, 0.0, after.TotalUnaccountedKm)
}
