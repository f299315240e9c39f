package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"warehouse-backend/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)

	// 1 MB body limit on everything else.
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20))

		// ── Catalog ───────────────────────────────────────────────────────────
		r.Get("/api/products", h.listProducts)
		r.Post("/api/products", h.createProduct)
		r.Post("/api/products/recompute-floors", h.recomputeFloors)
		r.Get("/api/products/{ref}", h.getProduct)
		r.Put("/api/products/{id}", h.updateProduct)
		r.Get("/api/products/{id}/changelog", h.productChangeLog)

		// ── Inventory ─────────────────────────────────────────────────────────
		r.Get("/api/inventory/stock", h.stockLevels)
		r.Get("/api/inventory/low-stock", h.lowStock)

		// ── Vendors ───────────────────────────────────────────────────────────
		r.Get("/api/vendors", h.listVendors)
		r.Post("/api/vendors", h.createVendor)

		// ── Purchase orders ───────────────────────────────────────────────────
		r.Get("/api/purchase-orders", h.listPurchaseOrders)
		r.Post("/api/purchase-orders", h.createPurchaseOrder)
		r.Get("/api/purchase-orders/{id}", h.getPurchaseOrder)
		r.Post("/api/purchase-orders/{id}/receive", h.receivePurchaseOrder)
		r.Post("/api/purchase-orders/{id}/cancel", h.cancelPurchaseOrder)

		// ── Customers and payments ────────────────────────────────────────────
		r.Get("/api/customers", h.listCustomers)
		r.Post("/api/customers", h.createCustomer)
		r.Get("/api/customers/{id}", h.getCustomer)
		r.Get("/api/customers/{id}/payments", h.listPayments)
		r.Post("/api/customers/{id}/payments", h.recordPayment)

		// ── Sales orders ──────────────────────────────────────────────────────
		r.Get("/api/sales-orders", h.listSalesOrders)
		r.Post("/api/sales-orders", h.createSalesOrder)
		r.Get("/api/sales-orders/{ref}", h.getSalesOrder)

		// ── Reports ───────────────────────────────────────────────────────────
		r.Get("/api/reports/valuation", h.inventoryValuation)
		r.Get("/api/reports/sales-summary", h.salesSummary)
		r.Get("/api/reports/price-changes", h.priceChanges)

		// ── Assistant ─────────────────────────────────────────────────────────
		r.Post("/api/assistant/query", h.assistantQuery)
		r.Get("/api/tools", h.listTools)
		r.Post("/api/tools/{name}", h.executeTool)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and writes an appropriate error
// response on failure. Returns HTTP 413 when the body exceeds the size limit
// set by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
