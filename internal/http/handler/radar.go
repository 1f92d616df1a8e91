package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jaekwang-park/agenda-api/internal/service"
)

type RadarHandler struct {
	svc *service.RadarService
}

func NewRadarHandler(svc *service.RadarService) *RadarHandler {
	return &RadarHandler{svc: svc}
}

// ServeHTTP routes /api/v1/radar and /api/v1/radar/{id}
func (h *RadarHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	itemID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/radar"), "/")

	if itemID != "" {
		if strings.Contains(itemID, "/") {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
			return
		}
		if r.Method != http.MethodDelete {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		h.handleDelete(w, r, itemID)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

type createRadarItemRequest struct {
	Title    string `json:"title"`
	Notes    string `json:"notes"`
	Priority *int   `json:"priority,omitempty"`
}

func (h *RadarHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRadarItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	item, err := h.svc.Create(r.Context(), getUserID(r), service.CreateRadarItemInput{
		Title:    req.Title,
		Notes:    req.Notes,
		Priority: req.Priority,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, item)
}

func (h *RadarHandler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), getUserID(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *RadarHandler) handleDelete(w http.ResponseWriter, r *http.Request, itemID string) {
	if err := h.svc.Delete(r.Context(), getUserID(r), itemID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
