package handlers

import (
	"net/http"

	"pgtodo/internal/store"
)

// HelloFromPool runs the probe query on a connection borrowed by the pool.
func (h *Handlers) HelloFromPool(w http.ResponseWriter, r *http.Request) {
	msg, err := store.Hello(r.Context(), h.pool)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondText(w, http.StatusOK, msg)
}

// HelloFromConn runs the probe query on the request's own connection.
func (h *Handlers) HelloFromConn(w http.ResponseWriter, r *http.Request, conn store.Conn) {
	msg, err := store.Hello(r.Context(), conn)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondText(w, http.StatusOK, msg)
}

// Healthz reports whether the database answers a ping.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respondText(w, http.StatusOK, "ok")
}
