package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type assistantQueryBody struct {
	Question string `json:"question"`
}

// assistantQuery handles POST /api/assistant/query. The agent calls read
// tools autonomously and returns a plain-text answer plus the tool trail.
func (h *Handler) assistantQuery(w http.ResponseWriter, r *http.Request) {
	var body assistantQueryBody
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Question == "" {
		writeError(w, r, "question is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.AskAssistant(r.Context(), body.Question)
	if err != nil {
		apiError(w, r, err)
		return
	}

	type response struct {
		Answer    string   `json:"answer"`
		ToolCalls []string `json:"tool_calls"`
	}
	writeJSON(w, response{Answer: result.Answer, ToolCalls: result.ToolCalls})
}

// listTools handles GET /api/tools.
func (h *Handler) listTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.svc.ListTools())
}

// executeTool handles POST /api/tools/{name}. The body is the tool's JSON
// arguments; the response is the tool's raw JSON result.
func (h *Handler) executeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	args := map[string]any{}
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &args) {
			return
		}
	}

	result, err := h.svc.ExecuteTool(r.Context(), name, args)
	if err != nil {
		apiError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(result))
}
