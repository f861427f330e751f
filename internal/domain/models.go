// internal/domain/models.go
package domain

import "time"

// Product represents a sellable mini-mart item
type Product struct {
	ID           int64     `json:"id" db:"id"`
	SKU          string    `json:"sku" db:"sku"`
	Name         string    `json:"name" db:"name"`
	Category     string    `json:"category" db:"category"`
	UnitOfSale   string    `json:"unit_of_sale" db:"unit_of_sale"`
	CostPrice    float64   `json:"cost_price" db:"cost_price"`
	SellingPrice float64   `json:"selling_price" db:"selling_price"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// InventorySnapshot represents the stock position of one product.
// AvailableStock is always CurrentStock - ReservedStock, recomputed on
// every write so it can never drift negative.
type InventorySnapshot struct {
	ID              int64     `json:"id" db:"id"`
	ProductID       int64     `json:"product_id" db:"product_id"`
	ProductName     string    `json:"product_name" db:"product_name"`
	CurrentStock    int       `json:"current_stock" db:"current_stock"`
	ReservedStock   int       `json:"reserved_stock" db:"reserved_stock"`
	AvailableStock  int       `json:"available_stock" db:"available_stock"`
	ReorderPoint    int       `json:"reorder_point" db:"reorder_point"`
	ReorderQuantity int       `json:"reorder_quantity" db:"reorder_quantity"`
	SafetyStock     int       `json:"safety_stock" db:"safety_stock"`
	MaximumStock    int       `json:"maximum_stock" db:"maximum_stock"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Supplier represents a supplier master record
type Supplier struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

/// SupplierOffer is the supplier-product relation: what a supplier charges
// for a product and on what terms.
type SupplierOffer struct {
	ID           int64   `json:"id" db:"id"`
	SupplierID   int64   `json:"supplier_id" db:"supplier_id"`
	SupplierName string  `json:"supplier_name" db:"supplier_name"`
	ProductID    int64   `json:"product_id" db:"product_id"`
	UnitCost     float64 `json:"unit_cost" db:"unit_cost"`
	MinimumOrder int     `json:"minimum_order_quantity" db:"minimum_order_quantity"`
	MaxCapacity  int     `json:"max_capacity" db:"max_capacity"`
	LeadTimeDays int     `json:"lead_time_days" db:"lead_time_days"`
	IsPreferred  bool    `json:"is_preferred" db:"is_preferred"`
}

// PurchaseOrder represents a procurement record raised against a supplier
type PurchaseOrder struct {
	ID          int64     `json:"id" db:"id"`
	OrderNumber string    `json:"order_number" db:"order_number"`
	SupplierID  int64     `json:"supplier_id" db:"supplier_id"`
	ProductID   int64     `json:"product_id" db:"product_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitCost    float64   `json:"unit_cost" db:"unit_cost"`
	TotalCost   float64   `json:"total_cost" db:"total_cost"`
	Status      string    `json:"status" db:"status"`
	IsUrgent    bool      `json:"is_urgent" db:"is_urgent"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Shipment represents an inbound delivery from a supplier
type Shipment struct {
	ID                   int64      `json:"id" db:"id"`
	ShipmentNumber       string     `json:"shipment_number" db:"shipment_number"`
	PurchaseOrderID      *int64     `json:"purchase_order_id,omitempty" db:"purchase_order_id"`
	SupplierID           int64      `json:"supplier_id" db:"supplier_id"`
	SupplierName         string     `json:"supplier_name" db:"supplier_name"`
	ProductID            int64      `json:"product_id" db:"product_id"`
	Quantity             int        `json:"quantity" db:"quantity"`
	Status               string     `json:"status" db:"status"`
	ExpectedDeliveryDate time.Time  `json:"expected_delivery_date" db:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time `json:"actual_delivery_date,omitempty" db:"actual_delivery_date"`
	TrackingInfo         string     `json:"tracking_info" db:"tracking_info"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// SalesPoint is one day of sales for a product. Series handed to the
// forecast engine are gap-filled to daily granularity, zero quantity on
// days without sales, dates strictly increasing.
type SalesPoint struct {
	Date     time.Time `json:"date" db:"sale_date"`
	Quantity float64   `json:"quantity" db:"quantity"`
	Revenue  float64   `json:"revenue" db:"revenue"`
}

/// AgentLog is one decision-log entry: a single top-level agent invocation
// with its input, output and outcome.
type AgentLog struct {
	ID              int64     `json:"id" db:"id"`
	AgentName       string    `json:"agent_name" db:"agent_name"`
	Action          string    `json:"action" db:"action"`
	InputData       []byte    `json:"input_data" db:"input_data"`
	OutputData      []byte    `json:"output_data" db:"output_data"`
	Status          string    `json:"status" db:"status"`
	ErrorMessage    string    `json:"error_message" db:"error_message"`
	ExecutionTimeMs int64     `json:"execution_time_ms" db:"execution_time_ms"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// AgentInteraction records a message passed between two agents. Purely
// observational; nothing is delivered anywhere.
type AgentInteraction struct {
	ID              int64     `json:"id" db:"id"`
	FromAgent       string    `json:"from_agent" db:"from_agent"`
	ToAgent         string    `json:"to_agent" db:"to_agent"`
	InteractionType string    `json:"interaction_type" db:"interaction_type"`
	Message         string    `json:"message" db:"message"`
	Data            []byte    `json:"data" db:"data"`
	AgentLogID      *int64    `json:"agent_log_id,omitempty" db:"agent_log_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
