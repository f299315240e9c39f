package web

import (
	"net/http"
	"strconv"

	"warehouse-backend/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// intURLParam parses a numeric chi URL parameter. Writes a 400 and returns
// false when the value is not an integer.
func intURLParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeError(w, r, "invalid "+name+" parameter", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

type createProductBody struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CategoryCode string          `json:"category_code"`
	Subcategory  string          `json:"subcategory"`
	Brand        string          `json:"brand"`
	Unit         string          `json:"unit"`
	Cost         decimal.Decimal `json:"cost"`
	RetailPrice  decimal.Decimal `json:"retail_price"`
	FloorPrice   decimal.Decimal `json:"floor_price"`
}

// createProduct handles POST /api/products.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body createProductBody
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.CreateProduct(r.Context(), app.CreateProductRequest{
		SKU:          body.SKU,
		Name:         body.Name,
		Description:  body.Description,
		CategoryCode: body.CategoryCode,
		Subcategory:  body.Subcategory,
		Brand:        body.Brand,
		Unit:         body.Unit,
		Cost:         body.Cost,
		RetailPrice:  body.RetailPrice,
		FloorPrice:   body.FloorPrice,
	})
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result.Product)
}

type updateProductBody struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Cost        *decimal.Decimal `json:"cost"`
	RetailPrice *decimal.Decimal `json:"retail_price"`
	FloorPrice  *decimal.Decimal `json:"floor_price"`
	IsActive    *bool            `json:"is_active"`
}

// updateProduct handles PUT /api/products/{id}. Absent fields are left
// unchanged; the response reflects the applied update and one change log
// entry has been recorded.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := intURLParam(w, r, "id")
	if !ok {
		return
	}

	var body updateProductBody
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.UpdateProduct(r.Context(), id, app.UpdateProductRequest{
		Name:        body.Name,
		Description: body.Description,
		Cost:        body.Cost,
		RetailPrice: body.RetailPrice,
		FloorPrice:  body.FloorPrice,
		IsActive:    body.IsActive,
	})
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Product)
}

// getProduct handles GET /api/products/{ref} where ref is an ID or SKU.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Product)
}

// listProducts handles GET /api/products?category=.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Products)
}

// productChangeLog handles GET /api/products/{id}/changelog.
func (h *Handler) productChangeLog(w http.ResponseWriter, r *http.Request) {
	id, ok := intURLParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetProductChangeLog(r.Context(), id)
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// recomputeFloors handles POST /api/products/recompute-floors.
func (h *Handler) recomputeFloors(w http.ResponseWriter, r *http.Request) {
	updated, err := h.svc.RecomputeFloorPrices(r.Context())
	if err != nil {
		apiError(w, r, err)
		return
	}
	type response struct {
		Updated int64 `json:"updated"`
	}
	writeJSON(w, response{Updated: updated})
}

// stockLevels handles GET /api/inventory/stock.
func (h *Handler) stockLevels(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetStockLevels(r.Context())
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Levels)
}

// lowStock handles GET /api/inventory/low-stock.
func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetLowStock(r.Context())
	if err != nil {
		apiError(w, r, err)
		return
	}
	writeJSON(w, result.Levels)
}
