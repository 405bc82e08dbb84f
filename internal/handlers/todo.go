package handlers

import (
	"net/http"

	"pgtodo/internal/models"
	"pgtodo/internal/store"
)

// ListTodos returns the todos ordered by id, windowed by the optional
// offset and limit query parameters.
func (h *Handlers) ListTodos(w http.ResponseWriter, r *http.Request) {
	page, err := models.ParsePagination(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	todos, err := store.ListTodos(r.Context(), h.pool, page)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, todos)
}

// CreateTodo inserts a todo and responds with its id.
func (h *Handlers) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var input models.CreateTodo
	if err := decodeJSON(w, r, &input); err != nil {
		respondDecodeError(w, err)
		return
	}

	id, err := store.CreateTodo(r.Context(), h.pool, input)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, id)
}

// UpdateTodo applies a partial update. The fetch and the write both run on
// the request's connection.
func (h *Handlers) UpdateTodo(w http.ResponseWriter, r *http.Request, conn store.Conn) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	var patch models.TodoPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondDecodeError(w, err)
		return
	}

	todo, err := store.UpdateTodo(r.Context(), conn, id, patch)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// DeleteTodo deletes a todo.
func (h *Handlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	if err := store.DeleteTodo(r.Context(), h.pool, id); err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
