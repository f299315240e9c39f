package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"warehouse-backend/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONStatus writes a JSON response with an explicit status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// apiError maps a service error to the right HTTP status and machine-readable
// code. Validation failures become 4xx; everything else is a 500.
func apiError(w http.ResponseWriter, r *http.Request, err error) {
	var stockErr *core.InsufficientStockError
	var floorErr *core.BelowFloorPriceError
	var creditErr *core.CreditLimitExceededError

	switch {
	case errors.As(err, &stockErr):
		writeError(w, r, err.Error(), "INSUFFICIENT_INVENTORY", http.StatusBadRequest)
	case errors.As(err, &floorErr):
		writeError(w, r, err.Error(), "BELOW_FLOOR_PRICE", http.StatusBadRequest)
	case errors.As(err, &creditErr):
		writeError(w, r, err.Error(), "CREDIT_LIMIT_EXCEEDED", http.StatusBadRequest)
	case errors.Is(err, core.ErrProductNotFound):
		writeError(w, r, err.Error(), "PRODUCT_NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrCustomerNotFound):
		writeError(w, r, err.Error(), "CUSTOMER_NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrVendorNotFound):
		writeError(w, r, err.Error(), "VENDOR_NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrPONotFound):
		writeError(w, r, err.Error(), "PO_NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrPOAlreadyReceived):
		writeError(w, r, err.Error(), "PO_ALREADY_RECEIVED", http.StatusBadRequest)
	case errors.Is(err, core.ErrPOCancelled):
		writeError(w, r, err.Error(), "PO_CANCELLED", http.StatusBadRequest)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
