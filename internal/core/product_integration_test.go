package core_test

import (
	"errors"
	"testing"

	"warehouse-backend/internal/core"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestProduct_CreateDerivesFloorAndLogsCreation(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)

	p, err := products.CreateProduct(ctx, core.ProductInput{
		SKU:          "SNK-CHIP",
		Name:         "Potato Chips",
		Description:  "Classic salted chips",
		CategoryCode: core.CategorySnacks,
		Cost:         dec("0.90"),
		RetailPrice:  dec("2.29"),
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	// Floor derives from cost when absent: 0.90 * 1.15 = 1.035 -> 1.04.
	if !p.FloorPrice.Equal(dec("1.04")) {
		t.Errorf("floor_price = %s, want 1.04", p.FloorPrice)
	}

	logs, err := products.GetChangeLog(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetChangeLog failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d change log rows, want 1", len(logs))
	}
	if logs[0].ChangeType != core.ChangeCreated {
		t.Errorf("change_type = %s, want created", logs[0].ChangeType)
	}
	if logs[0].NewRetail == nil || !logs[0].NewRetail.Equal(dec("2.29")) {
		t.Errorf("new_retail = %v, want 2.29", logs[0].NewRetail)
	}
}

func TestProduct_UpdateClassifiesAndLogsExactlyOnce(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)

	// Seeded product 1: BEV-COLA cost 4.00 retail 8.00.
	cases := []struct {
		name   string
		update core.ProductUpdate
		want   core.ChangeType
	}{
		{"retail increase", core.ProductUpdate{RetailPrice: decPtr("9.00")}, core.ChangePriceIncrease},
		{"retail decrease", core.ProductUpdate{RetailPrice: decPtr("7.50")}, core.ChangePriceDecrease},
		{"cost only", core.ProductUpdate{Cost: decPtr("4.40")}, core.ChangeCostChange},
		{"description only", core.ProductUpdate{Description: strPtr("New recipe cola")}, core.ChangeDescriptionUpdate},
		{"name only", core.ProductUpdate{Name: strPtr("Cola 12-pack (new)")}, core.ChangeUpdated},
		{"retail wins over cost", core.ProductUpdate{RetailPrice: decPtr("10.00"), Cost: decPtr("5.00")}, core.ChangePriceIncrease},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := products.UpdateProduct(ctx, 1, tc.update); err != nil {
				t.Fatalf("UpdateProduct failed: %v", err)
			}

			logs, err := products.GetChangeLog(ctx, 1)
			if err != nil {
				t.Fatalf("GetChangeLog failed: %v", err)
			}
			// Exactly one new row per update; seeded products carry no
			// creation entry.
			if len(logs) != i+1 {
				t.Fatalf("got %d change log rows after %d updates, want %d", len(logs), i+1, i+1)
			}
			if logs[0].ChangeType != tc.want {
				t.Errorf("change_type = %s, want %s", logs[0].ChangeType, tc.want)
			}
		})
	}
}

func TestProduct_UpdateRecordsMargins(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)

	// 4.00/8.00 -> 50%; raising retail to 10.00 -> 60%.
	if _, err := products.UpdateProduct(ctx, 1, core.ProductUpdate{RetailPrice: decPtr("10.00")}); err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}

	logs, err := products.GetChangeLog(ctx, 1)
	if err != nil {
		t.Fatalf("GetChangeLog failed: %v", err)
	}
	entry := logs[0]
	if entry.OldMargin == nil || !entry.OldMargin.Equal(dec("50")) {
		t.Errorf("old_margin = %v, want 50", entry.OldMargin)
	}
	if entry.NewMargin == nil || !entry.NewMargin.Equal(dec("60")) {
		t.Errorf("new_margin = %v, want 60", entry.NewMargin)
	}
}

func TestProduct_UpdateMissing(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)

	_, err := products.UpdateProduct(ctx, 9999, core.ProductUpdate{Name: strPtr("ghost")})
	if !errors.Is(err, core.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProduct_RecomputeFloorPrices(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)

	// Drift a floor away from cost * 1.15, then recompute.
	if _, err := products.UpdateProduct(ctx, 1, core.ProductUpdate{FloorPrice: decPtr("9.99")}); err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}

	updated, err := products.RecomputeFloorPrices(ctx)
	if err != nil {
		t.Fatalf("RecomputeFloorPrices failed: %v", err)
	}
	if updated != 3 {
		t.Errorf("updated = %d products, want 3", updated)
	}

	p, err := products.GetProduct(ctx, 1)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if !p.FloorPrice.Equal(dec("4.60")) {
		t.Errorf("floor_price = %s after recompute, want 4.60", p.FloorPrice)
	}
}

func TestProduct_ListByCategory(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)

	bev, err := products.GetProducts(ctx, core.CategoryBeverages)
	if err != nil {
		t.Fatalf("GetProducts failed: %v", err)
	}
	if len(bev) != 1 || bev[0].SKU != "BEV-COLA" {
		t.Errorf("beverages = %v, want just BEV-COLA", bev)
	}

	all, err := products.GetProducts(ctx, "")
	if err != nil {
		t.Fatalf("GetProducts failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d products, want 3", len(all))
	}
}
