package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jaekwang-park/agenda-api/internal/service"
)

type AgendaHandler struct {
	svc *service.AgendaService
}

func NewAgendaHandler(svc *service.AgendaService) *AgendaHandler {
	return &AgendaHandler{svc: svc}
}

// ServeHTTP routes /api/v1/agenda/{today|next|week} and /api/v1/agenda/overview
func (h *AgendaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is allowed")
		return
	}

	shape := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/agenda"), "/")
	if shape == "" || strings.Contains(shape, "/") {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
		return
	}

	query := r.URL.Query()
	date := optionalString(query, "date")
	days, ok := optionalInt(w, query, "days")
	if !ok {
		return
	}

	if shape == "overview" {
		overview, err := h.svc.Overview(r.Context(), getUserID(r), date, days)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, overview)
		return
	}

	var radar bool
	if radarStr := query.Get("radar"); radarStr != "" {
		v, err := strconv.ParseBool(radarStr)
		if err != nil {
			writeValidationError(w, "radar", "invalid radar: must be true or false")
			return
		}
		radar = v
	}

	result, err := h.svc.GetAgenda(r.Context(), getUserID(r), service.AgendaQuery{
		Shape: shape,
		Date:  date,
		Days:  days,
		Radar: radar,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func optionalString(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

func optionalInt(w http.ResponseWriter, q url.Values, key string) (*int, bool) {
	if !q.Has(key) {
		return nil, true
	}
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		writeValidationError(w, key, "invalid "+key+": must be an integer")
		return nil, false
	}
	return &v, true
}
