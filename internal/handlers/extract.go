package handlers

import (
	"net/http"

	"pgtodo/internal/store"
)

// ConnHandlerFunc is a handler that runs with one connection checked out of
// the pool for the whole request.
type ConnHandlerFunc func(w http.ResponseWriter, r *http.Request, conn store.Conn)

// WithConn checks out a connection before next runs and returns it to the
// pool once next is done, including when next panics. If no connection can
// be checked out the request fails with the pool's error.
func (h *Handlers) WithConn(next ConnHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.pool.Acquire(r.Context())
		if err != nil {
			h.respondStoreError(w, r, err)
			return
		}
		defer conn.Release()

		next(w, r, conn)
	}
}
