// seed loads a small demo dataset: a handful of products across categories,
// two vendors, two customers, and one pending purchase order. Safe to rerun;
// every insert is ON CONFLICT DO NOTHING keyed on the natural code.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"

	"warehouse-backend/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Seeding products...")
	_, err = tx.Exec(ctx, `
		INSERT INTO products (sku, name, description, category_code, brand, unit, cost, retail_price, floor_price)
		VALUES
			('BEV-COLA-12', 'Cola 12-pack', 'Carbonated soft drink, 12x330ml', 'BEVERAGES', 'Sparkle', 'pack', 4.80, 8.99, 5.52),
			('BEV-WATR-24', 'Spring Water 24-pack', 'Still spring water, 24x500ml', 'BEVERAGES', 'ClearSpring', 'pack', 3.20, 6.49, 3.68),
			('SNK-CHIP-01', 'Potato Chips Salted', 'Classic salted chips, 150g', 'SNACKS', 'Crunchy', 'bag', 0.90, 2.29, 1.04),
			('DRY-MILK-1L', 'Whole Milk 1L', 'Pasteurized whole milk', 'DAIRY', 'Meadow', 'carton', 0.85, 1.59, 0.98),
			('MEA-BEEF-1K', 'Ground Beef 1kg', 'Fresh ground beef 80/20', 'MEAT', 'Prime Cut', 'kg', 6.50, 11.99, 7.48),
			('FRZ-PEAS-5H', 'Frozen Peas 500g', 'Garden peas, flash frozen', 'FROZEN', 'Meadow', 'bag', 1.10, 2.49, 1.27)
		ON CONFLICT (sku) DO NOTHING;
	`)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Println("Seeding vendors...")
	_, err = tx.Exec(ctx, `
		INSERT INTO vendors (code, name, contact_person, email, phone)
		VALUES
			('V-NORTH', 'Northside Distribution', 'Ana Petrov', 'orders@northside.example', '555-0101'),
			('V-FRESH', 'FreshLine Foods', 'Marcus Lee', 'sales@freshline.example', '555-0102')
		ON CONFLICT (code) DO NOTHING;
	`)
	if err != nil {
		log.Fatalf("Failed to seed vendors: %v", err)
	}

	log.Println("Seeding customers...")
	_, err = tx.Exec(ctx, `
		INSERT INTO customers (code, name, email, group_tag, credit_limit)
		VALUES
			('C-CORNER', 'Corner Market', 'buyer@cornermarket.example', 'retail', 5000.00),
			('C-BISTRO', 'Bistro Verde', 'kitchen@bistroverde.example', 'hospitality', 2500.00)
		ON CONFLICT (code) DO NOTHING;
	`)
	if err != nil {
		log.Fatalf("Failed to seed customers: %v", err)
	}

	log.Println("Seeding a pending purchase order...")
	_, err = tx.Exec(ctx, `
		WITH v AS (SELECT id FROM vendors WHERE code = 'V-NORTH'),
		     po AS (
		         INSERT INTO purchase_orders (po_number, vendor_id, status, total, notes)
		         SELECT 'PO-0001', v.id, 'PENDING', 1000.00, 'Opening stock order'
		         FROM v
		         ON CONFLICT (po_number) DO NOTHING
		         RETURNING id
		     )
		INSERT INTO purchase_order_items (order_id, line_number, product_id, quantity, unit_cost, line_total)
		SELECT po.id, 1, p.id, 125, 4.80, 600.00
		FROM po, products p WHERE p.sku = 'BEV-COLA-12'
		UNION ALL
		SELECT po.id, 2, p.id, 125, 3.20, 400.00
		FROM po, products p WHERE p.sku = 'BEV-WATR-24';
	`)
	if err != nil {
		log.Fatalf("Failed to seed purchase order: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit seed: %v", err)
	}
	log.Println("Seed complete.")
}
