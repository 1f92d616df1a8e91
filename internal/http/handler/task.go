package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/jaekwang-park/agenda-api/internal/model"
	"github.com/jaekwang-park/agenda-api/internal/service"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// ServeHTTP routes /api/v1/tasks and /api/v1/tasks/{id}
func (h *TaskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/tasks")
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	taskID := parts[0]
	subPath := ""
	if len(parts) > 1 {
		subPath = parts[1]
	}

	// /api/v1/tasks/{id}/done
	if taskID != "" && subPath == "done" {
		h.handleSetDone(w, r, taskID)
		return
	}
	if subPath != "" {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
		return
	}

	// /api/v1/tasks/{id}
	if taskID != "" {
		switch r.Method {
		case http.MethodGet:
			h.handleGetByID(w, r, taskID)
		case http.MethodPut:
			h.handleUpdate(w, r, taskID)
		case http.MethodDelete:
			h.handleDelete(w, r, taskID)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	// /api/v1/tasks
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

type createTaskRequest struct {
	Title     string  `json:"title"`
	Notes     string  `json:"notes"`
	Priority  *int    `json:"priority,omitempty"`
	DueDate   *string `json:"due_date,omitempty"`
	Rule      *string `json:"rule,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
}

func (h *TaskHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	task, err := h.svc.Create(r.Context(), userID, service.CreateTaskInput{
		Title:     req.Title,
		Notes:     req.Notes,
		Priority:  req.Priority,
		DueDate:   req.DueDate,
		Rule:      req.Rule,
		StartDate: req.StartDate,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) handleGetByID(w http.ResponseWriter, r *http.Request, taskID string) {
	task, err := h.svc.GetByID(r.Context(), getUserID(r), taskID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

type updateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Priority  *int    `json:"priority,omitempty"`
	DueDate   *string `json:"due_date,omitempty"`
	Rule      *string `json:"rule,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
}

func (h *TaskHandler) handleUpdate(w http.ResponseWriter, r *http.Request, taskID string) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	task, err := h.svc.Update(r.Context(), getUserID(r), taskID, service.UpdateTaskInput{
		Title:     req.Title,
		Notes:     req.Notes,
		Priority:  req.Priority,
		DueDate:   req.DueDate,
		Rule:      req.Rule,
		StartDate: req.StartDate,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleDelete(w http.ResponseWriter, r *http.Request, taskID string) {
	if err := h.svc.Delete(r.Context(), getUserID(r), taskID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type setDoneRequest struct {
	Done *bool `json:"done"`
}

func (h *TaskHandler) handleSetDone(w http.ResponseWriter, r *http.Request, taskID string) {
	if r.Method != http.MethodPatch {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	var req setDoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if req.Done == nil {
		writeValidationError(w, "done", "invalid done: is required")
		return
	}

	task, err := h.svc.SetDone(r.Context(), getUserID(r), taskID, *req.Done)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleList(w http.ResponseWriter, r *http.Request) {
	params := model.TaskListParams{UserID: getUserID(r)}

	if kindStr := r.URL.Query().Get("kind"); kindStr != "" {
		kind := model.TaskKind(kindStr)
		params.Kind = &kind
	}
	if doneStr := r.URL.Query().Get("done"); doneStr != "" {
		done, err := strconv.ParseBool(doneStr)
		if err != nil {
			writeValidationError(w, "done", "invalid done: must be true or false")
			return
		}
		params.IsDone = &done
	}

	tasks, err := h.svc.List(r.Context(), params)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}
