package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productService struct {
	pool *pgxpool.Pool
}

// NewProductService constructs a ProductService backed by PostgreSQL.
func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

const productColumns = `id, sku, name, description, category_code, subcategory, brand, unit,
       cost, retail_price, floor_price, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.CategoryCode,
		&p.Subcategory, &p.Brand, &p.Unit, &p.Cost, &p.RetailPrice, &p.FloorPrice,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	if input.SKU == "" || input.Name == "" {
		return nil, fmt.Errorf("product sku and name are required")
	}
	if input.CategoryCode == "" {
		input.CategoryCode = CategoryGeneral
	}
	if input.Unit == "" {
		input.Unit = "unit"
	}
	floorPrice := input.FloorPrice
	if floorPrice.IsZero() {
		floorPrice = DefaultFloorPrice(input.Cost)
	}

	toPtr := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := scanProduct(tx.QueryRow(ctx, `
		INSERT INTO products (sku, name, description, category_code, subcategory, brand, unit,
		                      cost, retail_price, floor_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+productColumns,
		input.SKU, input.Name, input.Description, input.CategoryCode,
		toPtr(input.Subcategory), toPtr(input.Brand), input.Unit,
		input.Cost, input.RetailPrice, floorPrice,
	))
	if err != nil {
		return nil, fmt.Errorf("create product %q: %w", input.SKU, err)
	}

	margin := p.Margin()
	if _, err := tx.Exec(ctx, `
		INSERT INTO product_change_logs (product_id, change_type, new_cost, new_retail, new_margin, new_description)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, ChangeCreated, p.Cost, p.RetailPrice, margin, p.Description,
	); err != nil {
		return nil, fmt.Errorf("log product creation %q: %w", input.SKU, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit product creation: %w", err)
	}
	return p, nil
}

// UpdateProduct locks the product row, applies the update, and appends exactly
// one change log entry. The lock keeps the old snapshot consistent with the
// applied update under concurrent edits.
func (s *productService) UpdateProduct(ctx context.Context, productID int, update ProductUpdate) (*Product, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	old, err := scanProduct(tx.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
		}
		return nil, fmt.Errorf("lock product %d: %w", productID, err)
	}

	name := old.Name
	if update.Name != nil {
		name = *update.Name
	}
	description := old.Description
	if update.Description != nil {
		description = *update.Description
	}
	cost := old.Cost
	if update.Cost != nil {
		cost = *update.Cost
	}
	retail := old.RetailPrice
	if update.RetailPrice != nil {
		retail = *update.RetailPrice
	}
	floor := old.FloorPrice
	if update.FloorPrice != nil {
		floor = *update.FloorPrice
	}
	isActive := old.IsActive
	if update.IsActive != nil {
		isActive = *update.IsActive
	}

	p, err := scanProduct(tx.QueryRow(ctx, `
		UPDATE products
		SET name = $1, description = $2, cost = $3, retail_price = $4,
		    floor_price = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+productColumns,
		name, description, cost, retail, floor, isActive, productID,
	))
	if err != nil {
		return nil, fmt.Errorf("update product %d: %w", productID, err)
	}

	changeType := ClassifyChange(
		PriceState{Cost: old.Cost, Retail: old.RetailPrice, Description: old.Description},
		PriceState{Cost: p.Cost, Retail: p.RetailPrice, Description: p.Description},
	)
	oldMargin := old.Margin()
	newMargin := p.Margin()
	if _, err := tx.Exec(ctx, `
		INSERT INTO product_change_logs
		       (product_id, change_type, old_cost, new_cost, old_retail, new_retail,
		        old_margin, new_margin, old_description, new_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, changeType, old.Cost, p.Cost, old.RetailPrice, p.RetailPrice,
		oldMargin, newMargin, old.Description, p.Description,
	); err != nil {
		return nil, fmt.Errorf("log product update %d: %w", productID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit product update: %w", err)
	}
	return p, nil
}

func (s *productService) GetProduct(ctx context.Context, productID int) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
		}
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}
	return p, nil
}

func (s *productService) GetProductBySKU(ctx context.Context, sku string) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE sku = $1", sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %q: %w", sku, ErrProductNotFound)
		}
		return nil, fmt.Errorf("get product %q: %w", sku, err)
	}
	return p, nil
}

func (s *productService) GetProducts(ctx context.Context, category CategoryCode) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE is_active = true"
	var args []any
	if category != "" {
		query += " AND category_code = $1"
		args = append(args, category)
	}
	query += " ORDER BY sku"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *productService) GetChangeLog(ctx context.Context, productID int) ([]ProductChangeLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, change_type, old_cost, new_cost, old_retail, new_retail,
		       old_margin, new_margin, old_description, new_description, created_at
		FROM product_change_logs
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("query change log for product %d: %w", productID, err)
	}
	defer rows.Close()

	var logs []ProductChangeLog
	for rows.Next() {
		var l ProductChangeLog
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ChangeType,
			&l.OldCost, &l.NewCost, &l.OldRetail, &l.NewRetail,
			&l.OldMargin, &l.NewMargin, &l.OldDescription, &l.NewDescription,
			&l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan change log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *productService) RecomputeFloorPrices(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		"UPDATE products SET floor_price = ROUND(cost * $1, 2), updated_at = NOW() WHERE is_active = true",
		floorMarkup,
	)
	if err != nil {
		return 0, fmt.Errorf("recompute floor prices: %w", err)
	}
	return tag.RowsAffected(), nil
}
