package mileage

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fleetware/fleet-mileage/internal/db"
	"github.com/fleetware/fleet-mileage/internal/models"
)

// Ledger records manager sign-off on mileage gaps and filters gap lists
// accordingly.
type Ledger struct {
	acks db.AcknowledgementCollection
}

// NewLedger creates a ledger over the given acknowledgement store.
func NewLedger(acks db.AcknowledgementCollection) *Ledger {
	return &Ledger{acks: acks}
}

// Acknowledge marks a gap as reviewed. Acknowledging the same gap twice
// overwrites the earlier entry; concurrent calls resolve last-write-wins.
func (l *Ledger) Acknowledge(ctx context.Context, companyID, gapID, reviewerID, note string) error {
	if gapID == "" {
		return fmt.Errorf("gap id is required")
	}
	ack := models.AcknowledgementRecord{
		GapID:          gapID,
		CompanyID:      companyID,
		ReviewerID:     reviewerID,
		Note:           note,
		AcknowledgedAt: time.Now(),
	}
	if err := l.acks.UpsertAcknowledgement(ctx, ack); err != nil {
		return fmt.Errorf("upsert acknowledgement: %w", err)
	}
	return nil
}

// IsAcknowledged reports whether a ledger entry exists for the gap.
func (l *Ledger) IsAcknowledged(ctx context.Context, gapID string) (bool, error) {
	ack, err := l.acks.FindAcknowledgement(ctx, gapID)
	if err != nil {
		return false, fmt.Errorf("find acknowledgement: %w", err)
	}
	return ack != nil, nil
}

// FilterUnacknowledged keeps only the gaps without a ledger entry. When a
// lookup fails the gap is kept: an unreviewable gap must stay visible rather
// than silently vanish from the dashboard.
func (l *Ledger) FilterUnacknowledged(ctx context.Context, gaps []models.MileageGap) []models.MileageGap {
	out := make([]models.MileageGap, 0, len(gaps))
	for _, g := range gaps {
		acked, err := l.IsAcknowledged(ctx, g.GapID())
		if err != nil {
			log.WithError(err).WithField("gap_id", g.GapID()).Warn("Acknowledgement lookup failed, keeping gap visible")
			out = append(out, g)
			continue
		}
		if !acked {
			out = append(out, g)
		}
	}
	return out
}
