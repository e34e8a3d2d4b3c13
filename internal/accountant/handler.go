package accountant

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

func (h *Handler) CreateAccountant(w http.ResponseWriter, r *http.Request) {
	var dto CreateAccountantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateAccountant: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := h.Service.CreateAccountant(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateAccountant: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateAccountant: accountant created", "accountant_id", acc.ID)
	h.WriteJSON(w, http.StatusCreated, acc)
}

func (h *Handler) ListAccountants(w http.ResponseWriter, r *http.Request) {
	accountants, err := h.Service.ListAccountants()
	if err != nil {
		h.Logger.Error("ListAccountants: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accountants": accountants,
	})
}

func (h *Handler) GetAccountant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	acc, err := h.Service.GetAccountant(id)
	if err != nil {
		if err == ErrAccountantNotFound {
			h.WriteError(w, http.StatusNotFound, "accountant not found")
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, acc)
}

func (h *Handler) UpdateAccountant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateAccountantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateAccountant: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := h.Service.UpdateAccountant(r.Context(), id, dto)
	if err != nil {
		if err == ErrAccountantNotFound {
			h.WriteError(w, http.StatusNotFound, "accountant not found")
			return
		}
		h.Logger.Error("UpdateAccountant: service error", "error", err, "accountant_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, acc)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateStatus(r.Context(), id, dto); err != nil {
		if err == ErrAccountantNotFound {
			h.WriteError(w, http.StatusNotFound, "accountant not found")
			return
		}
		h.Logger.Error("UpdateStatus: service error", "error", err, "accountant_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": dto.Status})
}

func (h *Handler) DeleteAccountant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteAccountant(r.Context(), id); err != nil {
		if err == ErrAccountantNotFound {
			h.WriteError(w, http.StatusNotFound, "accountant not found")
			return
		}
		h.Logger.Error("DeleteAccountant: service error", "error", err, "accountant_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ResendCredentials(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.ResendCredentials(r.Context(), id); err != nil {
		if err == ErrAccountantNotFound {
			h.WriteError(w, http.StatusNotFound, "accountant not found")
			return
		}
		h.Logger.Error("ResendCredentials: service error", "error", err, "accountant_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "credentials_sent"})
}
