package core_test

import (
	"errors"
	"sync"
	"testing"

	"warehouse-backend/internal/core"
)

func TestSalesOrder_FulfillmentHappyPath(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	sales := core.NewSalesOrderService(pool, inv, core.DefaultSalesPolicy)
	customers := core.NewCustomerService(pool)

	receiveUnits(t, ctx, pool, inv, 1, 100, core.CategoryBeverages)
	receiveUnits(t, ctx, pool, inv, 2, 40, core.CategoryMeat)

	order, err := sales.CreateSalesOrder(ctx, 1, []core.SOItemInput{
		{ProductID: 1, Quantity: 10, UnitPrice: dec("8.00")},
		{ProductID: 2, Quantity: 5, UnitPrice: dec("14.00")},
	}, "weekly restock")
	if err != nil {
		t.Fatalf("CreateSalesOrder failed: %v", err)
	}

	if order.SONumber != "SO-0001" {
		t.Errorf("so_number = %s, want SO-0001", order.SONumber)
	}
	if order.Status != core.SOStatusFulfilled {
		t.Errorf("status = %s, want FULFILLED", order.Status)
	}
	if !order.Total.Equal(dec("150.00")) {
		t.Errorf("total = %s, want 150.00", order.Total)
	}
	if len(order.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(order.Items))
	}
	if !order.Items[0].LineTotal.Equal(dec("80.00")) {
		t.Errorf("line 1 total = %s, want 80.00", order.Items[0].LineTotal)
	}

	// Stock was deducted.
	cola, _ := inv.GetInventory(ctx, 1)
	if cola.QtyOnHand != 90 {
		t.Errorf("cola qty_on_hand = %d, want 90", cola.QtyOnHand)
	}

	// Balance went up by the order total.
	cust, err := customers.GetCustomer(ctx, 1)
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if !cust.CurrentBalance.Equal(dec("150.00")) {
		t.Errorf("balance = %s, want 150.00", cust.CurrentBalance)
	}

	// Lookup by SO number round-trips.
	byNumber, err := sales.GetOrderBySONumber(ctx, "SO-0001")
	if err != nil {
		t.Fatalf("GetOrderBySONumber failed: %v", err)
	}
	if byNumber.ID != order.ID {
		t.Errorf("lookup by number returned order %d, want %d", byNumber.ID, order.ID)
	}
}

func TestSalesOrder_PaymentRoundTrip(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	sales := core.NewSalesOrderService(pool, inv, core.DefaultSalesPolicy)
	customers := core.NewCustomerService(pool)

	receiveUnits(t, ctx, pool, inv, 1, 100, core.CategoryBeverages)

	if _, err := sales.CreateSalesOrder(ctx, 1, []core.SOItemInput{
		{ProductID: 1, Quantity: 15, UnitPrice: dec("10.00")},
	}, ""); err != nil {
		t.Fatalf("CreateSalesOrder failed: %v", err)
	}

	payment, err := customers.RecordPayment(ctx, 1, dec("150.00"), "2026-08-20", "bank")
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if !payment.Amount.Equal(dec("150.00")) {
		t.Errorf("payment amount = %s, want 150.00", payment.Amount)
	}

	cust, err := customers.GetCustomer(ctx, 1)
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if !cust.CurrentBalance.IsZero() {
		t.Errorf("balance after full payment = %s, want 0", cust.CurrentBalance)
	}
}

func TestSalesOrder_BelowFloorPriceRejected(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	sales := core.NewSalesOrderService(pool, inv, core.DefaultSalesPolicy)

	receiveUnits(t, ctx, pool, inv, 1, 100, core.CategoryBeverages)

	// Floor for BEV-COLA is 4.60.
	_, err := sales.CreateSalesOrder(ctx, 1, []core.SOItemInput{
		{ProductID: 1, Quantity: 10, UnitPrice: dec("4.59")},
	}, "")

	var floorErr *core.BelowFloorPriceError
	if !errors.As(err, &floorErr) {
		t.Fatalf("expected BelowFloorPriceError, got %v", err)
	}
	if floorErr.SKU != "BEV-COLA" {
		t.Errorf("error SKU = %s, want BEV-COLA", floorErr.SKU)
	}

	// Nothing was deducted and no order was written.
	item, _ := inv.GetInventory(ctx, 1)
	if item.QtyOnHand != 100 {
		t.Errorf("qty_on_hand = %d after rejection, want 100", item.QtyOnHand)
	}
	orders, err := sales.GetOrders(ctx, 0)
	if err != nil {
		t.Fatalf("GetOrders failed: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("got %d orders after rejection, want 0", len(orders))
	}

	// Selling exactly at floor is allowed.
	if _, err := sales.CreateSalesOrder(ctx, 1, []core.SOItemInput{
		{ProductID: 1, Quantity: 10, UnitPrice: dec("4.60")},
	}, ""); err != nil {
		t.Fatalf("at-floor order failed: %v", err)
	}
}

func TestSalesOrder_InsufficientStockRejectsWholeOrder(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	sales := core.NewSalesOrderService(pool, inv, core.DefaultSalesPolicy)

	receiveUnits(t, ctx, pool, inv, 1, 100, core.CategoryBeverages)
	receiveUnits(t, ctx, pool, inv, 2, 3, core.CategoryMeat)

	// Line 1 is coverable, line 2 is not: the whole order must fail and line
	// 1's stock must be untouched.
	_, err := sales.CreateSalesOrder(ctx, 1, []core.SOItemInput{
		{ProductID: 1, Quantity: 10, UnitPrice: dec("8.00")},
		{ProductID: 2, Quantity: 5, UnitPrice: dec("14.00")},
	}, "")

	var stockErr *core.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.SKU != "MEA-BEEF" || stockErr.OnHand != 3 || stockErr.Requested != 5 {
		t.Errorf("error = %+v, want MEA-BEEF 3/5", stockErr)
	}

	cola, _ := inv.GetInventory(ctx, 1)
	if cola.QtyOnHand != 100 {
		t.Errorf("cola qty_on_hand = %d, want 100 (no partial fulfillment)", cola.QtyOnHand)
	}
}

func TestSalesOrder_CreditLimit(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	customers := core.NewCustomerService(pool)

	receiveUnits(t, ctx, pool, inv, 1, 100, core.CategoryBeverages)

	t.Run("enforced policy rejects over-limit order", func(t *testing.T) {
		sales := core.NewSalesOrderService(pool, inv, core.DefaultSalesPolicy)

		// Customer 2 has a 100.00 limit; 15 x 8.00 = 120.00.
		_, err := sales.CreateSalesOrder(ctx, 2, []core.SOItemInput{
			{ProductID: 1, Quantity: 15, UnitPrice: dec("8.00")},
		}, "")

		var creditErr *core.CreditLimitExceededError
		if !errors.As(err, &creditErr) {
			t.Fatalf("expected CreditLimitExceededError, got %v", err)
		}
		if creditErr.CustomerCode != "C-TIGHT" {
			t.Errorf("error customer = %s, want C-TIGHT", creditErr.CustomerCode)
		}
		if !creditErr.WouldBe.Equal(dec("120.00")) {
			t.Errorf("would-be balance = %s, want 120.00", creditErr.WouldBe)
		}

		// Rejection left balance and stock alone.
		cust, _ := customers.GetCustomer(ctx, 2)
		if !cust.CurrentBalance.IsZero() {
			t.Errorf("balance = %s after rejection, want 0", cust.CurrentBalance)
		}
		item, _ := inv.GetInventory(ctx, 1)
		if item.QtyOnHand != 100 {
			t.Errorf("qty_on_hand = %d after rejection, want 100", item.QtyOnHand)
		}
	})

	t.Run("disabled policy allows the same order", func(t *testing.T) {
		sales := core.NewSalesOrderService(pool, inv, core.SalesPolicy{EnforceCreditLimit: false})

		order, err := sales.CreateSalesOrder(ctx, 2, []core.SOItemInput{
			{ProductID: 1, Quantity: 15, UnitPrice: dec("8.00")},
		}, "")
		if err != nil {
			t.Fatalf("CreateSalesOrder failed with policy off: %v", err)
		}
		if !order.Total.Equal(dec("120.00")) {
			t.Errorf("total = %s, want 120.00", order.Total)
		}
	})
}

func TestSalesOrder_NumberingContinuesAndStaysDistinct(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	sales := core.NewSalesOrderService(pool, inv, core.DefaultSalesPolicy)

	receiveUnits(t, ctx, pool, inv, 1, 1000, core.CategoryBeverages)

	// Pre-existing order: the sequence must continue after its suffix.
	_, err := pool.Exec(ctx, `
		INSERT INTO sales_orders (so_number, customer_id, status, subtotal, total)
		VALUES ('SO-0007', 1, 'FULFILLED', 0, 0)`)
	if err != nil {
		t.Fatalf("seed existing SO: %v", err)
	}

	order, err := sales.CreateSalesOrder(ctx, 1, []core.SOItemInput{
		{ProductID: 1, Quantity: 1, UnitPrice: dec("8.00")},
	}, "")
	if err != nil {
		t.Fatalf("CreateSalesOrder failed: %v", err)
	}
	if order.SONumber != "SO-0008" {
		t.Errorf("so_number = %s, want SO-0008", order.SONumber)
	}

	// Concurrent orders allocate distinct numbers.
	const workers = 8
	var wg sync.WaitGroup
	numbers := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := sales.CreateSalesOrder(ctx, 1, []core.SOItemInput{
				{ProductID: 1, Quantity: 1, UnitPrice: dec("8.00")},
			}, "")
			if err != nil {
				t.Errorf("concurrent CreateSalesOrder failed: %v", err)
				numbers <- ""
				return
			}
			numbers <- o.SONumber
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for n := range numbers {
		if n == "" {
			continue
		}
		if seen[n] {
			t.Errorf("duplicate SO number %s", n)
		}
		seen[n] = true
	}
}

func TestSalesOrder_UnknownCustomerAndProduct(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	sales := core.NewSalesOrderService(pool, inv, core.DefaultSalesPolicy)

	_, err := sales.CreateSalesOrder(ctx, 9999, []core.SOItemInput{
		{ProductID: 1, Quantity: 1, UnitPrice: dec("8.00")},
	}, "")
	if !errors.Is(err, core.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}

	_, err = sales.CreateSalesOrder(ctx, 1, []core.SOItemInput{
		{ProductID: 9999, Quantity: 1, UnitPrice: dec("8.00")},
	}, "")
	if !errors.Is(err, core.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
