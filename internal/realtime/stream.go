package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/pontocerto/timeclock/internal/transport"
)

// Filter narrows a live snapshot. Unset fields match everything.
type Filter struct {
	AccountantID string
	ClientID     string
	EmployeeID   string
	Status       string
}

// Snapshot reads the full filtered state of one collection. It runs on
// connect and again after every change event; there is no incremental
// diffing.
type Snapshot func(f Filter) (interface{}, error)

// StreamHandler serves server-sent-event feeds per collection. Each event is
// the complete filtered snapshot, mirroring subscribe/re-read semantics.
type StreamHandler struct {
	*transport.BaseHandler
	hub       *Hub
	snapshots map[string]Snapshot
}

func NewStreamHandler(hub *Hub) *StreamHandler {
	return &StreamHandler{
		BaseHandler: transport.NewBaseHandler(nil),
		hub:         hub,
		snapshots:   make(map[string]Snapshot),
	}
}

// Register binds a collection name to its snapshot reader.
func (h *StreamHandler) Register(collection string, snapshot Snapshot) {
	h.snapshots[collection] = snapshot
}

func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	return Filter{
		AccountantID: q.Get("accountant_id"),
		ClientID:     q.Get("client_id"),
		EmployeeID:   q.Get("employee_id"),
		Status:       q.Get("status"),
	}
}

// Stream handles GET /stream/{collection}.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	snapshot, ok := h.snapshots[collection]
	if !ok {
		h.WriteError(w, http.StatusNotFound, "unknown collection")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	filter := filterFromQuery(r)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := h.sendSnapshot(w, collection, snapshot, filter); err != nil {
		h.Logger.Error("stream: initial snapshot failed", "error", err, "collection", collection)
		return
	}
	flusher.Flush()

	changes, cancel := h.hub.Subscribe(collection)
	defer cancel()

	h.Logger.Info("stream opened", "collection", collection)

	for {
		select {
		case <-r.Context().Done():
			h.Logger.Info("stream closed", "collection", collection)
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			if err := h.sendSnapshot(w, collection, snapshot, filter); err != nil {
				h.Logger.Warn("stream: snapshot refresh failed", "error", err, "collection", collection)
				return
			}
			flusher.Flush()
		}
	}
}

func (h *StreamHandler) sendSnapshot(w http.ResponseWriter, collection string, snapshot Snapshot, filter Filter) error {
	data, err := snapshot(filter)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"collection": collection,
		"data":       data,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
	return err
}
