package web

import (
	"net/http"
	"strconv"

	"warehouse-backend/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// listCustomers handles GET /api/customers.
func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Customers)
}

type createCustomerBody struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	GroupTag    string          `json:"group_tag"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// createCustomer handles POST /api/customers.
func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var body createCustomerBody
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.CreateCustomer(r.Context(), app.CreateCustomerRequest{
		Code:        body.Code,
		Name:        body.Name,
		Email:       body.Email,
		Phone:       body.Phone,
		Address:     body.Address,
		GroupTag:    body.GroupTag,
		CreditLimit: body.CreditLimit,
	})
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result.Customer)
}

// getCustomer handles GET /api/customers/{id}.
func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := intURLParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetCustomer(r.Context(), id)
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Customer)
}

// listPayments handles GET /api/customers/{id}/payments.
func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := intURLParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.ListPayments(r.Context(), id)
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Payments)
}

type recordPaymentBody struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"`
	Method      string          `json:"method"`
}

// recordPayment handles POST /api/customers/{id}/payments. The payment row and
// the balance decrement land atomically.
func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := intURLParam(w, r, "id")
	if !ok {
		return
	}
	var body recordPaymentBody
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.RecordPayment(r.Context(), app.RecordPaymentRequest{
		CustomerID:  id,
		Amount:      body.Amount,
		PaymentDate: body.PaymentDate,
		Method:      body.Method,
	})
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result.Payment)
}

type soLineBody struct {
	ProductID int             `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type createSalesOrderBody struct {
	CustomerID int          `json:"customer_id"`
	Notes      string       `json:"notes"`
	Lines      []soLineBody `json:"lines"`
}

// createSalesOrder handles POST /api/sales-orders. Any validation failure
// (stock, floor price, credit) rejects the whole order with a coded 400.
func (h *Handler) createSalesOrder(w http.ResponseWriter, r *http.Request) {
	var body createSalesOrderBody
	if !decodeJSON(w, r, &body) {
		return
	}

	lines := make([]app.SOLineInput, len(body.Lines))
	for i, l := range body.Lines {
		lines[i] = app.SOLineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}

	result, err := h.svc.CreateSalesOrder(r.Context(), app.CreateSalesOrderRequest{
		CustomerID: body.CustomerID,
		Notes:      body.Notes,
		Lines:      lines,
	})
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result.Order)
}

// getSalesOrder handles GET /api/sales-orders/{ref} where ref is an ID or SO number.
func (h *Handler) getSalesOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetSalesOrder(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// listSalesOrders handles GET /api/sales-orders?customer_id=.
func (h *Handler) listSalesOrders(w http.ResponseWriter, r *http.Request) {
	customerID := 0
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, "invalid customer_id parameter", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		customerID = v
	}
	result, err := h.svc.ListSalesOrders(r.Context(), customerID)
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Orders)
}
