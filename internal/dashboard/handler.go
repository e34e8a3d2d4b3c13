package dashboard

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/pontocerto/timeclock/internal/session"
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

func (h *Handler) ProviderOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Service.ProviderOverview()
	if err != nil {
		h.Logger.Error("ProviderOverview: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, overview)
}

// AccountantMetrics serves /dashboards/accountants/{id}. An accountant role
// may only read its own metrics; provider and admin may read any.
func (h *Handler) AccountantMetrics(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if sess, ok := session.FromContext(r.Context()); ok {
		if sess.Role == session.RoleAccountant && sess.UserID != id {
			h.WriteError(w, http.StatusForbidden, "forbidden")
			return
		}
	}

	metrics, err := h.Service.AccountantMetrics(id)
	if err != nil {
		h.Logger.Error("AccountantMetrics: service error", "error", err, "accountant_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, metrics)
}
