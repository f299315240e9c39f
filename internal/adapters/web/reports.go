package web

import (
	"net/http"
	"strconv"
)

// inventoryValuation handles GET /api/reports/valuation.
func (h *Handler) inventoryValuation(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetInventoryValuation(r.Context())
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// salesSummary handles GET /api/reports/sales-summary?from=&to=.
func (h *Handler) salesSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summaries, err := h.svc.GetSalesSummary(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, summaries)
}

// priceChanges handles GET /api/reports/price-changes?limit=.
func (h *Handler) priceChanges(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, "invalid limit parameter", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		limit = v
	}
	entries, err := h.svc.GetRecentPriceChanges(r.Context(), limit)
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, entries)
}
