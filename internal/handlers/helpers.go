package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/falube/certificaciones/httpx"
	"github.com/falube/certificaciones/internal/services"

	"github.com/go-chi/chi/v5"
)

// idParam parsea un parámetro numérico de chi. Devuelve 0 y escribe un 400
// cuando falta o no es un entero positivo.
func idParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "parámetro inválido: "+name, nil)
		return 0, false
	}
	return uint(id), true
}

// serviceError mapea la taxonomía de errores de servicios a estados HTTP. Los
// errores de storage se loguean y salen como un 500 genérico, sin internals.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case services.IsValidation(err):
		httpx.JSONError(w, http.StatusBadRequest, err.Error(), nil)
	case services.IsNotFound(err):
		httpx.JSONError(w, http.StatusNotFound, err.Error(), nil)
	default:
		log.Printf("internal error: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, "error interno", nil)
	}
}
