// internal/logistics/tracker.go
package logistics

import (
	"math"
	"time"

	"github.com/minimart-ai/backend/internal/domain"
)

// Shipment track classifications
const (
	TrackOnTrack = "on_track"
	TrackAtRisk  = "at_risk"
	TrackOverdue = "overdue"
)

// atRiskWindowDays is how close to the expected date a shipment counts as
// at risk.
const atRiskWindowDays = 2

// TrackedShipment is a shipment with its derived classification.
type TrackedShipment struct {
	Shipment     domain.Shipment `json:"shipment"`
	Track        string          `json:"track"`
	DaysUntilDue int             `json:"days_until_due"`
	DaysOverdue  int             `json:"days_overdue"`
}

// TrackingReport summarizes the active shipment book.
type TrackingReport struct {
	Total     int               `json:"total"`
	OnTrack   []TrackedShipment `json:"on_track"`
	AtRisk    []TrackedShipment `json:"at_risk"`
	Overdue   []TrackedShipment `json:"overdue"`
	CheckedAt time.Time         `json:"checked_at"`
}

// Classify derives the track state of one shipment at a point in time.
// Delivered and cancelled shipments are on track by definition.
func Classify(s domain.Shipment, now time.Time) TrackedShipment {
	tracked := TrackedShipment{Shipment: s, Track: TrackOnTrack}
	if !domain.ShipmentActive(s.Status) {
		return tracked
	}

	untilDue := int(math.Floor(s.ExpectedDeliveryDate.Sub(now).Hours() / 24))
	tracked.DaysUntilDue = untilDue

	switch {
	case now.After(s.ExpectedDeliveryDate):
		tracked.Track = TrackOverdue
		tracked.DaysOverdue = int(math.Ceil(now.Sub(s.ExpectedDeliveryDate).Hours() / 24))
		tracked.DaysUntilDue = 0
	case untilDue <= atRiskWindowDays:
		tracked.Track = TrackAtRisk
	}

	return tracked
}

// Track classifies every shipment and buckets the report.
func Track(shipments []domain.Shipment, now time.Time) TrackingReport {
	report := TrackingReport{Total: len(shipments), CheckedAt: now}
	for _, s := range shipments {
		tracked := Classify(s, now)
		switch tracked.Track {
		case TrackOverdue:
			report.Overdue = append(report.Overdue, tracked)
		case TrackAtRisk:
			report.AtRisk = append(report.AtRisk, tracked)
		default:
			report.OnTrack = append(report.OnTrack, tracked)
		}
	}

	return report
}
