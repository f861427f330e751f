package logistics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimart-ai/backend/internal/domain"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func shipmentDue(in int, status string) domain.Shipment {
	return domain.Shipment{
		SupplierID:           1,
		Status:               status,
		ExpectedDeliveryDate: now.AddDate(0, 0, in),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		shipment domain.Shipment
		want     string
	}{
		{"due next week", shipmentDue(7, domain.ShipmentInTransit), TrackOnTrack},
		{"due in two days", shipmentDue(2, domain.ShipmentInTransit), TrackAtRisk},
		{"due today", shipmentDue(0, domain.ShipmentConfirmed), TrackAtRisk},
		{"past due", shipmentDue(-3, domain.ShipmentInTransit), TrackOverdue},
		{"delivered late is not overdue", shipmentDue(-3, domain.ShipmentDelivered), TrackOnTrack},
		{"cancelled is not tracked", shipmentDue(-3, domain.ShipmentCancelled), TrackOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.shipment, now).Track)
		})
	}
}

func TestClassifyDueTodayBeforeCutoff(t *testing.T) {
	s := shipmentDue(0, domain.ShipmentInTransit)
	s.ExpectedDeliveryDate = now.Add(6 * time.Hour)

	tracked := Classify(s, now)
	assert.Equal(t, TrackAtRisk, tracked.Track)
}

func TestTrackBucketsShipments(t *testing.T) {
	shipments := []domain.Shipment{
		shipmentDue(10, domain.ShipmentInTransit),
		shipmentDue(1, domain.ShipmentInTransit),
		shipmentDue(-1, domain.ShipmentConfirmed),
		shipmentDue(-1, domain.ShipmentDelivered),
	}

	report := Track(shipments, now)

	assert.Equal(t, 4, report.Total)
	assert.Len(t, report.OnTrack, 2)
	assert.Len(t, report.AtRisk, 1)
	assert.Len(t, report.Overdue, 1)
	assert.Greater(t, report.Overdue[0].DaysOverdue, 0)
}

func deliveredShipment(supplierID int64, orderedDaysAgo, lateDays int) domain.Shipment {
	created := now.AddDate(0, 0, -orderedDaysAgo)
	expected := created.AddDate(0, 0, 5)
	actual := expected.AddDate(0, 0, lateDays)

	return domain.Shipment{
		SupplierID:           supplierID,
		Status:               domain.ShipmentDelivered,
		CreatedAt:            created,
		ExpectedDeliveryDate: expected,
		ActualDeliveryDate:   &actual,
	}
}

func TestScorePerformance(t *testing.T) {
	shipments := []domain.Shipment{
		deliveredShipment(1, 30, 0),
		deliveredShipment(1, 20, 0),
		deliveredShipment(1, 10, 2),
		deliveredShipment(2, 10, 0),              // other supplier
		deliveredShipment(1, 200, 0),             // outside window
		shipmentDue(3, domain.ShipmentInTransit), // not delivered
	}

	rng := rand.New(rand.NewSource(5))
	score, ok := ScorePerformance(1, "Fresh Foods Co", shipments, 90, now, rng)
	require.True(t, ok)

	assert.Equal(t, 3, score.TotalDeliveries)
	assert.InDelta(t, 66.667, score.OnTimeRate, 0.01)
	assert.GreaterOrEqual(t, score.QualityScore, 0.0)
	assert.LessOrEqual(t, score.QualityScore, 100.0)
	assert.Greater(t, score.AvgDeliveryDays, 0.0)
	assert.Contains(t, []string{"A", "B", "C", "D", "F"}, score.Grade)
}

func TestScorePerformanceNoDeliveries(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	_, ok := ScorePerformance(9, "Unknown", nil, 90, now, rng)
	assert.False(t, ok)
}

func TestGrade(t *testing.T) {
	assert.Equal(t, "A", Grade(95))
	assert.Equal(t, "A", Grade(90))
	assert.Equal(t, "B", Grade(85))
	assert.Equal(t, "C", Grade(72))
	assert.Equal(t, "D", Grade(61))
	assert.Equal(t, "F", Grade(40))
}

func TestResolveKnownIssues(t *testing.T) {
	for _, issue := range []string{"delayed", "lost", "damaged", "wrong_item"} {
		r := Resolve(issue)
		assert.Equal(t, issue, r.IssueType)
		assert.NotEmpty(t, r.Action)
		assert.NotEmpty(t, r.Priority)
		assert.NotEmpty(t, r.Timeline)
		assert.NotEmpty(t, r.Escalation)
	}

	assert.Equal(t, "high", Resolve("lost").Priority)
}

func TestResolveUnknownIssue(t *testing.T) {
	r := Resolve("alien_abduction")
	assert.Equal(t, "alien_abduction", r.IssueType)
	assert.Contains(t, r.Action, "investigate")
}
