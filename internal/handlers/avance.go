package handlers

import (
	"net/http"

	"github.com/falube/certificaciones/httpx"
	"github.com/falube/certificaciones/internal/services"
	"github.com/falube/certificaciones/validation"

	"gorm.io/gorm"
)

// AvanceHandler es la ruta dedicada de partes de avance. A diferencia de la
// variante montada bajo obras, acá el período es obligatorio.
type AvanceHandler struct {
	Svc *services.AvanceService
}

func NewAvanceHandler(db *gorm.DB) *AvanceHandler {
	return &AvanceHandler{Svc: services.NewAvanceService(db)}
}

// Crear: POST /api/avanceObra/{obraId}.
func (h *AvanceHandler) Crear(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	var in services.AvanceInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "json inválido", nil)
		return
	}
	if in.NumeroAvance == 0 || in.FechaAvance == "" || in.PeriodoDesde == "" || in.PeriodoHasta == "" {
		httpx.JSONError(w, http.StatusBadRequest, "faltan datos en cabecera del avance", nil)
		return
	}
	v := validation.Violations{}
	validation.ISODate("fecha_avance", in.FechaAvance, v)
	validation.ISODate("periodo_desde", in.PeriodoDesde, v)
	validation.ISODate("periodo_hasta", in.PeriodoHasta, v)
	if v.Empty() {
		validation.DateOrder("periodo_hasta", in.PeriodoDesde, in.PeriodoHasta, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "fechas de avance inválidas", v)
		return
	}
	creado, err := h.Svc.Crear(obraID, in)
	if err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":          "Avance de obra guardado correctamente",
		"id":               creado.ID,
		"items_insertados": creado.ItemsInsertados,
	})
}
