package domain

import "strings"

// Shipment statuses
const (
	ShipmentPending   = "pending"
	ShipmentConfirmed = "confirmed"
	ShipmentInTransit = "in_transit"
	ShipmentDelivered = "delivered"
	ShipmentDelayed   = "delayed"
	ShipmentCancelled = "cancelled"
)

var shipmentStatusLabels = map[string]string{
	ShipmentPending:   "Pending",
	ShipmentConfirmed: "Confirmed",
	ShipmentInTransit: "In Transit",
	ShipmentDelivered: "Delivered",
	ShipmentDelayed:   "Delayed",
	ShipmentCancelled: "Cancelled",
}

// Purchase order statuses
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderReceived  = "received"
	OrderCancelled = "cancelled"
)

// ShipmentStatusLabel returns a human-readable label for a shipment status.
func ShipmentStatusLabel(status string) string {
	if label, ok := shipmentStatusLabels[strings.ToLower(status)]; ok {
		return label
	}

	return "Unknown"
}

// ValidShipmentStatus reports whether status is one of the known shipment states.
func ValidShipmentStatus(status string) bool {
	_, ok := shipmentStatusLabels[strings.ToLower(status)]

	return ok
}

// ShipmentActive reports whether a shipment still needs tracking.
func ShipmentActive(status string) bool {
	switch strings.ToLower(status) {
	case ShipmentDelivered, ShipmentCancelled:
		return false
	}

	return true
}
