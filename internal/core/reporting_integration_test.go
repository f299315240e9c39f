package core_test

import (
	"testing"

	"warehouse-backend/internal/core"
)

func TestReporting_InventoryValuation(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	reporting := core.NewReportingService(pool)

	// 100 cola @ cost 4.00 / retail 8.00, 10 beef @ cost 6.00 / retail 12.00.
	receiveUnits(t, ctx, pool, inv, 1, 100, core.CategoryBeverages)
	receiveUnits(t, ctx, pool, inv, 2, 10, core.CategoryMeat)

	report, err := reporting.GetInventoryValuation(ctx)
	if err != nil {
		t.Fatalf("GetInventoryValuation failed: %v", err)
	}

	if len(report.Lines) != 2 {
		t.Fatalf("got %d valuation lines, want 2", len(report.Lines))
	}
	// Ordered by cost value descending: cola (400.00) first.
	if report.Lines[0].SKU != "BEV-COLA" || !report.Lines[0].CostValue.Equal(dec("400.00")) {
		t.Errorf("top line = %s %s, want BEV-COLA 400.00",
			report.Lines[0].SKU, report.Lines[0].CostValue)
	}
	if !report.TotalCostValue.Equal(dec("460.00")) {
		t.Errorf("total cost value = %s, want 460.00", report.TotalCostValue)
	}
	if !report.TotalRetailValue.Equal(dec("920.00")) {
		t.Errorf("total retail value = %s, want 920.00", report.TotalRetailValue)
	}
	// (920 - 460) / 920 = 50%.
	if !report.PotentialMargin.Equal(dec("50")) {
		t.Errorf("potential margin = %s, want 50", report.PotentialMargin)
	}
}

func TestReporting_SalesSummary(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	sales := core.NewSalesOrderService(pool, inv, core.DefaultSalesPolicy)
	reporting := core.NewReportingService(pool)

	receiveUnits(t, ctx, pool, inv, 1, 200, core.CategoryBeverages)

	for i := 0; i < 2; i++ {
		if _, err := sales.CreateSalesOrder(ctx, 1, []core.SOItemInput{
			{ProductID: 1, Quantity: 10, UnitPrice: dec("8.00")},
		}, ""); err != nil {
			t.Fatalf("CreateSalesOrder failed: %v", err)
		}
	}

	summaries, err := reporting.GetSalesSummary(ctx, "", "")
	if err != nil {
		t.Fatalf("GetSalesSummary failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1 (customers without orders are omitted)", len(summaries))
	}

	s := summaries[0]
	if s.CustomerCode != "C-ALPHA" {
		t.Errorf("customer = %s, want C-ALPHA", s.CustomerCode)
	}
	if s.OrderCount != 2 || s.UnitsSold != 20 {
		t.Errorf("orders/units = %d/%d, want 2/20", s.OrderCount, s.UnitsSold)
	}
	if !s.Revenue.Equal(dec("160.00")) {
		t.Errorf("revenue = %s, want 160.00", s.Revenue)
	}
	if !s.Balance.Equal(dec("160.00")) {
		t.Errorf("balance = %s, want 160.00", s.Balance)
	}

	// A window before any orders is empty.
	none, err := reporting.GetSalesSummary(ctx, "2000-01-01", "2000-12-31")
	if err != nil {
		t.Fatalf("GetSalesSummary with range failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d summaries for an ancient window, want 0", len(none))
	}
}

func TestReporting_RecentPriceChanges(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	products := core.NewProductService(pool)
	reporting := core.NewReportingService(pool)

	if _, err := products.UpdateProduct(ctx, 1, core.ProductUpdate{RetailPrice: decPtr("9.00")}); err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if _, err := products.UpdateProduct(ctx, 2, core.ProductUpdate{Cost: decPtr("6.50")}); err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}

	entries, err := reporting.GetRecentPriceChanges(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecentPriceChanges failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Newest first.
	if entries[0].SKU != "MEA-BEEF" || entries[0].ChangeType != core.ChangeCostChange {
		t.Errorf("entry 0 = %s/%s, want MEA-BEEF/cost_change", entries[0].SKU, entries[0].ChangeType)
	}
	if entries[1].SKU != "BEV-COLA" || entries[1].ChangeType != core.ChangePriceIncrease {
		t.Errorf("entry 1 = %s/%s, want BEV-COLA/price_increase", entries[1].SKU, entries[1].ChangeType)
	}

	one, err := reporting.GetRecentPriceChanges(ctx, 1)
	if err != nil {
		t.Fatalf("GetRecentPriceChanges with limit failed: %v", err)
	}
	if len(one) != 1 {
		t.Errorf("limit 1 returned %d entries", len(one))
	}
}

func TestVendor_CreateAndList(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	vendors := core.NewVendorService(pool)

	v, err := vendors.CreateVendor(ctx, core.VendorInput{
		Code:          "V-SOUTH",
		Name:          "Southside Wholesale",
		ContactPerson: "Dana Kim",
	})
	if err != nil {
		t.Fatalf("CreateVendor failed: %v", err)
	}
	if v.ContactPerson == nil || *v.ContactPerson != "Dana Kim" {
		t.Errorf("contact_person = %v, want Dana Kim", v.ContactPerson)
	}
	if v.Email != nil {
		t.Errorf("email = %v, want nil for blank input", v.Email)
	}

	all, err := vendors.GetVendors(ctx)
	if err != nil {
		t.Fatalf("GetVendors failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d vendors, want 2", len(all))
	}

	byCode, err := vendors.GetVendorByCode(ctx, "V-SOUTH")
	if err != nil {
		t.Fatalf("GetVendorByCode failed: %v", err)
	}
	if byCode.ID != v.ID {
		t.Errorf("lookup returned vendor %d, want %d", byCode.ID, v.ID)
	}
}

func TestCustomer_PaymentValidation(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	customers := core.NewCustomerService(pool)

	if _, err := customers.RecordPayment(ctx, 1, dec("0"), "", ""); err == nil {
		t.Error("expected zero payment to fail")
	}
	if _, err := customers.RecordPayment(ctx, 1, dec("-5.00"), "", ""); err == nil {
		t.Error("expected negative payment to fail")
	}
	if _, err := customers.RecordPayment(ctx, 9999, dec("5.00"), "", ""); err == nil {
		t.Error("expected payment for unknown customer to fail")
	}

	p, err := customers.RecordPayment(ctx, 1, dec("25.00"), "", "")
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if p.Method != "cash" {
		t.Errorf("method = %s, want cash default", p.Method)
	}

	balance, err := customers.GetBalance(ctx, 1)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(dec("-25.00")) {
		t.Errorf("balance = %s, want -25.00 (overpayment carries as credit)", balance)
	}
}
