package core_test

import (
	"errors"
	"sync"
	"testing"

	"warehouse-backend/internal/core"
)

func TestPurchaseOrder_CreateAssignsNumberAndTotals(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	pos := core.NewPurchaseOrderService(pool, inv)

	po, err := pos.CreatePO(ctx, 1, "2026-08-01", "2026-08-10", []core.POItemInput{
		{ProductID: 1, Quantity: 120, UnitCost: dec("4.00")},
		{ProductID: 2, Quantity: 30, UnitCost: dec("6.00")},
	}, "opening order")
	if err != nil {
		t.Fatalf("CreatePO failed: %v", err)
	}

	if po.PONumber != "PO-0001" {
		t.Errorf("po_number = %s, want PO-0001", po.PONumber)
	}
	if po.Status != core.POStatusPending {
		t.Errorf("status = %s, want PENDING", po.Status)
	}
	if !po.Total.Equal(dec("660.00")) {
		t.Errorf("total = %s, want 660.00", po.Total)
	}
	if len(po.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(po.Items))
	}
	if !po.Items[0].LineTotal.Equal(dec("480.00")) {
		t.Errorf("line 1 total = %s, want 480.00", po.Items[0].LineTotal)
	}

	// Stock is not touched until receipt.
	item, err := inv.GetInventory(ctx, 1)
	if err != nil {
		t.Fatalf("GetInventory failed: %v", err)
	}
	if item != nil {
		t.Errorf("inventory row created before receipt: %+v", item)
	}
}

func TestPurchaseOrder_NumberingContinuesFromExistingData(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	pos := core.NewPurchaseOrderService(pool, inv)

	// Pre-existing order from before the sequence table was introduced.
	_, err := pool.Exec(ctx, `
		INSERT INTO purchase_orders (po_number, vendor_id, status, total)
		VALUES ('PO-0007', 1, 'RECEIVED', 0)`)
	if err != nil {
		t.Fatalf("seed existing PO: %v", err)
	}

	po, err := pos.CreatePO(ctx, 1, "", "", []core.POItemInput{
		{ProductID: 1, Quantity: 1, UnitCost: dec("4.00")},
	}, "")
	if err != nil {
		t.Fatalf("CreatePO failed: %v", err)
	}
	if po.PONumber != "PO-0008" {
		t.Errorf("po_number = %s, want PO-0008", po.PONumber)
	}
}

func TestPurchaseOrder_ReceiveCreditsInventoryOnce(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	pos := core.NewPurchaseOrderService(pool, inv)

	po, err := pos.CreatePO(ctx, 1, "", "", []core.POItemInput{
		{ProductID: 1, Quantity: 120, UnitCost: dec("4.00")},
		{ProductID: 2, Quantity: 30, UnitCost: dec("6.00")},
	}, "")
	if err != nil {
		t.Fatalf("CreatePO failed: %v", err)
	}

	summary, err := pos.ReceivePO(ctx, po.ID)
	if err != nil {
		t.Fatalf("ReceivePO failed: %v", err)
	}
	if summary.ItemsReceived != 2 || summary.UnitsReceived != 150 {
		t.Errorf("summary = %+v, want 2 items / 150 units", summary)
	}

	received, err := pos.GetPO(ctx, po.ID)
	if err != nil {
		t.Fatalf("GetPO failed: %v", err)
	}
	if received.Status != core.POStatusReceived {
		t.Errorf("status = %s, want RECEIVED", received.Status)
	}
	if received.ReceivedDate == nil {
		t.Error("received_date not set")
	}

	cola, err := inv.GetInventory(ctx, 1)
	if err != nil {
		t.Fatalf("GetInventory failed: %v", err)
	}
	if cola.QtyOnHand != 120 {
		t.Errorf("cola qty_on_hand = %d, want 120", cola.QtyOnHand)
	}
	// Beverage thresholds were applied at first receipt.
	if cola.ReorderLevel != 100 || cola.ReorderQty != 200 {
		t.Errorf("cola thresholds = {%d %d}, want {100 200}", cola.ReorderLevel, cola.ReorderQty)
	}

	// Second receive must fail and must not credit again.
	_, err = pos.ReceivePO(ctx, po.ID)
	if !errors.Is(err, core.ErrPOAlreadyReceived) {
		t.Fatalf("expected ErrPOAlreadyReceived, got %v", err)
	}
	cola, _ = inv.GetInventory(ctx, 1)
	if cola.QtyOnHand != 120 {
		t.Errorf("cola qty_on_hand after double receive = %d, want 120", cola.QtyOnHand)
	}
}

func TestPurchaseOrder_ConcurrentReceiveCreditsOnce(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	pos := core.NewPurchaseOrderService(pool, inv)

	po, err := pos.CreatePO(ctx, 1, "", "", []core.POItemInput{
		{ProductID: 1, Quantity: 50, UnitCost: dec("4.00")},
	}, "")
	if err != nil {
		t.Fatalf("CreatePO failed: %v", err)
	}

	const workers = 5
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pos.ReceivePO(ctx, po.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, core.ErrPOAlreadyReceived) {
			t.Errorf("unexpected failure kind: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d receives succeeded, want exactly 1", succeeded)
	}

	item, err := inv.GetInventory(ctx, 1)
	if err != nil {
		t.Fatalf("GetInventory failed: %v", err)
	}
	if item.QtyOnHand != 50 {
		t.Errorf("qty_on_hand = %d, want 50 (credited once)", item.QtyOnHand)
	}
}

func TestPurchaseOrder_CancelLifecycle(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	inv := core.NewInventoryService(pool)
	pos := core.NewPurchaseOrderService(pool, inv)

	po, err := pos.CreatePO(ctx, 1, "", "", []core.POItemInput{
		{ProductID: 1, Quantity: 10, UnitCost: dec("4.00")},
	}, "")
	if err != nil {
		t.Fatalf("CreatePO failed: %v", err)
	}

	cancelled, err := pos.CancelPO(ctx, po.ID)
	if err != nil {
		t.Fatalf("CancelPO failed: %v", err)
	}
	if cancelled.Status != core.POStatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}

	// A cancelled PO cannot be received.
	if _, err := pos.ReceivePO(ctx, po.ID); !errors.Is(err, core.ErrPOCancelled) {
		t.Fatalf("expected ErrPOCancelled, got %v", err)
	}

	// And cannot be cancelled twice.
	if _, err := pos.CancelPO(ctx, po.ID); err == nil {
		t.Error("expected second cancel to fail")
	}
}

func TestPurchaseOrder_ReceiveMissing(t *testing.T) {
	pool, ctx := setupTestDB(t)
	defer pool.Close()
	pos := core.NewPurchaseOrderService(pool, core.NewInventoryService(pool))

	if _, err := pos.ReceivePO(ctx, 9999); !errors.Is(err, core.ErrPONotFound) {
		t.Fatalf("expected ErrPONotFound, got %v", err)
	}
}
