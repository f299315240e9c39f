package web

import (
	"fmt"
	"net/http"

	"warehouse-backend/internal/app"

	"github.com/shopspring/decimal"
)

// listVendors handles GET /api/vendors.
func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListVendors(r.Context())
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Vendors)
}

type createVendorBody struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// createVendor handles POST /api/vendors.
func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var body createVendorBody
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.CreateVendor(r.Context(), app.CreateVendorRequest{
		Code:          body.Code,
		Name:          body.Name,
		ContactPerson: body.ContactPerson,
		Email:         body.Email,
		Phone:         body.Phone,
		Address:       body.Address,
	})
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result.Vendor)
}

type poLineBody struct {
	ProductID int             `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

type createPOBody struct {
	VendorID     int          `json:"vendor_id"`
	OrderDate    string       `json:"order_date"`
	ExpectedDate string       `json:"expected_date"`
	Notes        string       `json:"notes"`
	Lines        []poLineBody `json:"lines"`
}

// createPurchaseOrder handles POST /api/purchase-orders.
func (h *Handler) createPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var body createPOBody
	if !decodeJSON(w, r, &body) {
		return
	}

	lines := make([]app.POLineInput, len(body.Lines))
	for i, l := range body.Lines {
		lines[i] = app.POLineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitCost: l.UnitCost}
	}

	result, err := h.svc.CreatePurchaseOrder(r.Context(), app.CreatePORequest{
		VendorID:     body.VendorID,
		OrderDate:    body.OrderDate,
		ExpectedDate: body.ExpectedDate,
		Notes:        body.Notes,
		Lines:        lines,
	})
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result.Order)
}

// receivePurchaseOrder handles POST /api/purchase-orders/{id}/receive.
// Receiving twice returns 400 PO_ALREADY_RECEIVED without touching inventory.
func (h *Handler) receivePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := intURLParam(w, r, "id")
	if !ok {
		return
	}

	result, err := h.svc.ReceivePurchaseOrder(r.Context(), id)
	if err != nil {
		apiError(w, r, err)
		return
	}

	type response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	s := result.Summary
	writeJSON(w, response{
		Success: true,
		Message: fmt.Sprintf("%s received: %d items, %d units", s.PONumber, s.ItemsReceived, s.UnitsReceived),
	})
}

// cancelPurchaseOrder handles POST /api/purchase-orders/{id}/cancel.
func (h *Handler) cancelPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := intURLParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.CancelPurchaseOrder(r.Context(), id)
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// getPurchaseOrder handles GET /api/purchase-orders/{id}.
func (h *Handler) getPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := intURLParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetPurchaseOrder(r.Context(), id)
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// listPurchaseOrders handles GET /api/purchase-orders?status=.
func (h *Handler) listPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListPurchaseOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Orders)
}
