// cmd/agentctl/seed.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"
)

// schema holds the tables the agents read and write. Idempotent so the seed
// command can run against an existing database.
const schema = `
CREATE TABLE IF NOT EXISTS products (
    id            BIGSERIAL PRIMARY KEY,
    sku           TEXT NOT NULL UNIQUE,
    name          TEXT NOT NULL,
    category      TEXT NOT NULL DEFAULT '',
    unit_of_sale  TEXT NOT NULL DEFAULT 'unit',
    cost_price    DOUBLE PRECISION NOT NULL DEFAULT 0,
    selling_price DOUBLE PRECISION NOT NULL DEFAULT 0,
    is_active     BOOLEAN NOT NULL DEFAULT TRUE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS inventory (
    id               BIGSERIAL PRIMARY KEY,
    product_id       BIGINT NOT NULL UNIQUE REFERENCES products(id),
    current_stock    INTEGER NOT NULL DEFAULT 0,
    reserved_stock   INTEGER NOT NULL DEFAULT 0,
    available_stock  INTEGER NOT NULL DEFAULT 0,
    reorder_point    INTEGER NOT NULL DEFAULT 0,
    reorder_quantity INTEGER NOT NULL DEFAULT 0,
    safety_stock     INTEGER NOT NULL DEFAULT 0,
    maximum_stock    INTEGER NOT NULL DEFAULT 0,
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS suppliers (
    id         BIGSERIAL PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL DEFAULT '',
    phone      TEXT NOT NULL DEFAULT '',
    is_active  BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS supplier_products (
    id                     BIGSERIAL PRIMARY KEY,
    supplier_id            BIGINT NOT NULL REFERENCES suppliers(id),
    product_id             BIGINT NOT NULL REFERENCES products(id),
    unit_cost              DOUBLE PRECISION NOT NULL DEFAULT 0,
    minimum_order_quantity INTEGER NOT NULL DEFAULT 1,
    max_capacity           INTEGER NOT NULL DEFAULT 0,
    lead_time_days         INTEGER NOT NULL DEFAULT 7,
    is_preferred           BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (supplier_id, product_id)
);

CREATE TABLE IF NOT EXISTS sales (
    id         BIGSERIAL PRIMARY KEY,
    product_id BIGINT NOT NULL REFERENCES products(id),
    quantity   INTEGER NOT NULL,
    unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
    sold_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS purchase_orders (
    id           BIGSERIAL PRIMARY KEY,
    order_number TEXT NOT NULL UNIQUE,
    supplier_id  BIGINT NOT NULL REFERENCES suppliers(id),
    product_id   BIGINT NOT NULL REFERENCES products(id),
    quantity     INTEGER NOT NULL,
    unit_cost    DOUBLE PRECISION NOT NULL DEFAULT 0,
    total_cost   DOUBLE PRECISION NOT NULL DEFAULT 0,
    status       TEXT NOT NULL DEFAULT 'pending',
    is_urgent    BOOLEAN NOT NULL DEFAULT FALSE,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS shipments (
    id                     BIGSERIAL PRIMARY KEY,
    shipment_number        TEXT NOT NULL UNIQUE,
    purchase_order_id      BIGINT REFERENCES purchase_orders(id),
    supplier_id            BIGINT NOT NULL REFERENCES suppliers(id),
    product_id             BIGINT NOT NULL REFERENCES products(id),
    quantity               INTEGER NOT NULL,
    status                 TEXT NOT NULL DEFAULT 'pending',
    expected_delivery_date TIMESTAMPTZ NOT NULL,
    actual_delivery_date   TIMESTAMPTZ,
    tracking_info          TEXT NOT NULL DEFAULT '',
    created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS agent_logs (
    id                BIGSERIAL PRIMARY KEY,
    agent_name        TEXT NOT NULL,
    action            TEXT NOT NULL,
    input_data        JSONB,
    output_data       JSONB,
    status            TEXT NOT NULL DEFAULT '',
    error_message     TEXT NOT NULL DEFAULT '',
    execution_time_ms BIGINT NOT NULL DEFAULT 0,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS agent_interactions (
    id               BIGSERIAL PRIMARY KEY,
    from_agent       TEXT NOT NULL,
    to_agent         TEXT NOT NULL,
    interaction_type TEXT NOT NULL,
    message          TEXT NOT NULL DEFAULT '',
    data             JSONB,
    agent_log_id     BIGINT REFERENCES agent_logs(id),
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

type demoProduct struct {
	sku          string
	name         string
	category     string
	costPrice    float64
	sellingPrice float64
	currentStock int
	reorderPoint int
	safetyStock  int
	baseDemand   int
}

var demoProducts = []demoProduct{
	{"MM-COF-001", "Ground Coffee 250g", "beverages", 4.20, 7.50, 140, 60, 25, 8},
	{"MM-MLK-001", "Fresh Milk 1L", "dairy", 0.80, 1.40, 45, 80, 35, 22},
	{"MM-BRD-001", "White Bread Loaf", "bakery", 0.60, 1.20, 30, 50, 20, 18},
	{"MM-EGG-001", "Eggs 12pk", "dairy", 1.90, 3.20, 15, 40, 18, 12},
	{"MM-RIC-001", "Jasmine Rice 5kg", "staples", 5.50, 9.00, 95, 30, 12, 4},
	{"MM-SUG-001", "White Sugar 1kg", "staples", 0.90, 1.60, 8, 25, 10, 6},
	{"MM-OIL-001", "Cooking Oil 1L", "staples", 2.10, 3.80, 70, 35, 15, 5},
	{"MM-NDL-001", "Instant Noodles 5pk", "snacks", 1.30, 2.50, 200, 90, 40, 25},
}

type demoSupplier struct {
	name  string
	email string
	phone string
}

var demoSuppliers = []demoSupplier{
	{"Metro Wholesale", "orders@metrowholesale.example", "+1-555-0101"},
	{"Harbor Foods", "sales@harborfoods.example", "+1-555-0102"},
	{"QuickSupply Co", "rfq@quicksupply.example", "+1-555-0103"},
}

func runSeed(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx := c.Context
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	supplierIDs, err := seedSuppliers(ctx, db)
	if err != nil {
		return err
	}

	historyDays := c.Int("history-days")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, p := range demoProducts {
		productID, err := seedProduct(ctx, db, p)
		if err != nil {
			return err
		}
		if err := seedOffers(ctx, db, productID, p, supplierIDs, rng); err != nil {
			return err
		}
		if err := seedSales(ctx, db, productID, p, historyDays, rng); err != nil {
			return err
		}
	}

	log.Printf("seeded %d products, %d suppliers, %d days of sales history",
		len(demoProducts), len(demoSuppliers), historyDays)
	return nil
}

func seedSuppliers(ctx context.Context, db *sql.DB) ([]int64, error) {
	ids := make([]int64, 0, len(demoSuppliers))
	for _, s := range demoSuppliers {
		var id int64
		err := db.QueryRowContext(ctx, `
            INSERT INTO suppliers (name, email, phone)
            VALUES ($1, $2, $3)
            ON CONFLICT DO NOTHING
            RETURNING id
        `, s.name, s.email, s.phone).Scan(&id)
		if err == sql.ErrNoRows {
			if err := db.QueryRowContext(ctx, `SELECT id FROM suppliers WHERE name = $1`, s.name).Scan(&id); err != nil {
				return nil, fmt.Errorf("failed to look up supplier %q: %w", s.name, err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("failed to insert supplier %q: %w", s.name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedProduct(ctx context.Context, db *sql.DB, p demoProduct) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, `
        INSERT INTO products (sku, name, category, cost_price, selling_price)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name
        RETURNING id
    `, p.sku, p.name, p.category, p.costPrice, p.sellingPrice).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product %q: %w", p.sku, err)
	}

	_, err = db.ExecContext(ctx, `
        INSERT INTO inventory (product_id, current_stock, available_stock,
                               reorder_point, reorder_quantity, safety_stock, maximum_stock)
        VALUES ($1, $2, $2, $3, $4, $5, $6)
        ON CONFLICT (product_id) DO UPDATE SET
            current_stock = EXCLUDED.current_stock,
            available_stock = EXCLUDED.available_stock,
            updated_at = NOW()
    `, id, p.currentStock, p.reorderPoint, p.reorderPoint*2, p.safetyStock, p.reorderPoint*5)
	if err != nil {
		return 0, fmt.Errorf("failed to insert inventory for %q: %w", p.sku, err)
	}

	return id, nil
}

func seedOffers(ctx context.Context, db *sql.DB, productID int64, p demoProduct, supplierIDs []int64, rng *rand.Rand) error {
	for i, supplierID := range supplierIDs {
		// Spread unit costs around the product cost price so ranking and
		// negotiation have something to work with
		unitCost := p.costPrice * (0.85 + 0.1*float64(i) + rng.Float64()*0.05)
		_, err := db.ExecContext(ctx, `
            INSERT INTO supplier_products (supplier_id, product_id, unit_cost,
                                           minimum_order_quantity, max_capacity, lead_time_days, is_preferred)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            ON CONFLICT (supplier_id, product_id) DO UPDATE SET unit_cost = EXCLUDED.unit_cost
        `, supplierID, productID, unitCost, 10+10*i, 500+200*i, 3+2*i, i == 0)
		if err != nil {
			return fmt.Errorf("failed to insert offer for product %d: %w", productID, err)
		}
	}
	return nil
}

func seedSales(ctx context.Context, db *sql.DB, productID int64, p demoProduct, days int, rng *rand.Rand) error {
	var existing int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales WHERE product_id = $1`, productID).Scan(&existing); err != nil {
		return fmt.Errorf("failed to count sales for product %d: %w", productID, err)
	}
	if existing > 0 {
		return nil
	}

	now := time.Now().UTC()
	for d := days; d > 0; d-- {
		day := now.AddDate(0, 0, -d)
		// Weekend lift plus noise
		demand := float64(p.baseDemand)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			demand *= 1.4
		}
		quantity := int(demand + rng.NormFloat64()*demand*0.2)
		if quantity <= 0 {
			continue
		}

		_, err := db.ExecContext(ctx, `
            INSERT INTO sales (product_id, quantity, unit_price, sold_at)
            VALUES ($1, $2, $3, $4)
        `, productID, quantity, p.sellingPrice, day.Add(12*time.Hour))
		if err != nil {
			return fmt.Errorf("failed to insert sales for product %d: %w", productID, err)
		}
	}
	return nil
}
