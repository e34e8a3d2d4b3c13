package timerecord

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/pontocerto/timeclock/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     service,
	}
}

func (h *Handler) CreateTimeRecord(w http.ResponseWriter, r *http.Request) {
	var dto CreateTimeRecordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateTimeRecord: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.Service.CreateTimeRecord(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateTimeRecord: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) ListTimeRecords(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")

	records, err := h.Service.ListTimeRecords(employeeID)
	if err != nil {
		h.Logger.Error("ListTimeRecords: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"time_records": records,
	})
}

func (h *Handler) GetTimeRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Service.GetTimeRecord(id)
	if err != nil {
		if err == ErrTimeRecordNotFound {
			h.WriteError(w, http.StatusNotFound, "time record not found")
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) DeleteTimeRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteTimeRecord(r.Context(), id); err != nil {
		if err == ErrTimeRecordNotFound {
			h.WriteError(w, http.StatusNotFound, "time record not found")
			return
		}
		h.Logger.Error("DeleteTimeRecord: service error", "error", err, "record_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
