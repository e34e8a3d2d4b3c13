package client

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

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var dto CreateClientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateClient: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.CreateClient(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateClient: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateClient: client created", "client_id", c.ID)
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	accountantID := r.URL.Query().Get("accountant_id")

	clients, err := h.Service.ListClients(accountantID)
	if err != nil {
		h.Logger.Error("ListClients: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"clients": clients,
	})
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.Service.GetClient(id)
	if err != nil {
		if err == ErrClientNotFound {
			h.WriteError(w, http.StatusNotFound, "client not found")
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateClientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateClient: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.UpdateClient(r.Context(), id, dto)
	if err != nil {
		if err == ErrClientNotFound {
			h.WriteError(w, http.StatusNotFound, "client not found")
			return
		}
		h.Logger.Error("UpdateClient: service error", "error", err, "client_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
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
		if err == ErrClientNotFound {
			h.WriteError(w, http.StatusNotFound, "client not found")
			return
		}
		h.Logger.Error("UpdateStatus: service error", "error", err, "client_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": dto.Status})
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteClient(r.Context(), id); err != nil {
		if err == ErrClientNotFound {
			h.WriteError(w, http.StatusNotFound, "client not found")
			return
		}
		h.Logger.Error("DeleteClient: service error", "error", err, "client_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ResendCredentials(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.ResendCredentials(r.Context(), id); err != nil {
		if err == ErrClientNotFound {
			h.WriteError(w, http.StatusNotFound, "client not found")
			return
		}
		h.Logger.Error("ResendCredentials: service error", "error", err, "client_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "credentials_sent"})
}
