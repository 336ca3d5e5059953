package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/falube/certificaciones/httpx"
	"github.com/falube/certificaciones/internal/models"
	"github.com/falube/certificaciones/internal/services"
	"github.com/falube/certificaciones/validation"

	"gorm.io/gorm"
)

// ObraHandler cubre el CRUD de obras y sus consultas derivadas (curva de
// avance, disponibilidad de planificación, resúmenes).
type ObraHandler struct {
	DB      *gorm.DB
	Curva   *services.CurvaService
	Planif  *services.PlanificacionService
	Avances *services.AvanceService
	Certs   *services.CertificacionService
}

func NewObraHandler(db *gorm.DB) *ObraHandler {
	return &ObraHandler{
		DB:      db,
		Curva:   services.NewCurvaService(db),
		Planif:  services.NewPlanificacionService(db),
		Avances: services.NewAvanceService(db),
		Certs:   services.NewCertificacionService(db),
	}
}

// Crear: POST /api/obras.
func (h *ObraHandler) Crear(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nombre      string `json:"nombre"`
		Ubicacion   string `json:"ubicacion"`
		Reparticion string `json:"reparticion"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "json inválido", nil)
		return
	}
	if strings.TrimSpace(req.Nombre) == "" {
		httpx.JSONError(w, http.StatusBadRequest, "el nombre es obligatorio", nil)
		return
	}
	if req.Reparticion != "" && !models.ReparticionValida(req.Reparticion) {
		httpx.JSONError(w, http.StatusBadRequest, "repartición no válida", nil)
		return
	}

	obra := models.Obra{Nombre: req.Nombre, Ubicacion: req.Ubicacion, Reparticion: req.Reparticion}
	if err := h.DB.Create(&obra).Error; err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, obra)
}

// Listar: GET /api/obras.
func (h *ObraHandler) Listar(w http.ResponseWriter, r *http.Request) {
	obras := []models.Obra{}
	if err := h.DB.Find(&obras).Error; err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, obras)
}

// Obtener: GET /api/obras/{obraId}.
func (h *ObraHandler) Obtener(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	var obra models.Obra
	if err := h.DB.First(&obra, obraID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "obra no encontrada", nil)
			return
		}
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, obra)
}

// CurvaAvance: GET /api/obras/{obraId}/curva-avance.
func (h *ObraHandler) CurvaAvance(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	curva, err := h.Curva.Compute(obraID)
	if err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, curva)
}

// CrearPlanificacion: POST /api/obras/{obraId}/planificacion.
func (h *ObraHandler) CrearPlanificacion(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	var in services.PlanificacionInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "json inválido", nil)
		return
	}
	v := validation.Violations{}
	validation.ISODate("fecha_desde", in.FechaDesde, v)
	validation.ISODate("fecha_hasta", in.FechaHasta, v)
	if v.Empty() {
		validation.DateOrder("fecha_hasta", in.FechaDesde, in.FechaHasta, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "fechas de planificación inválidas", v)
		return
	}
	planificacion, err := h.Planif.Crear(obraID, in)
	if err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"ok":               true,
		"message":          "Planificación creada correctamente",
		"planificacion_id": planificacion.ID,
	})
}

// ItemsDisponibles: GET /api/obras/{obraId}/items-disponible-planificacion.
func (h *ObraHandler) ItemsDisponibles(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	items, err := h.Planif.ItemsDisponibles(obraID)
	if err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// CrearAvance: POST /api/obras/{obraId}/avances.
func (h *ObraHandler) CrearAvance(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	var in services.AvanceInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "json inválido", nil)
		return
	}
	v := validation.Violations{}
	validation.ISODate("fecha_avance", in.FechaAvance, v)
	// El período es opcional en esta ruta, pero si viene tiene que ser un
	// rango ISO bien formado.
	if in.PeriodoDesde != "" || in.PeriodoHasta != "" {
		validation.ISODate("periodo_desde", in.PeriodoDesde, v)
		validation.ISODate("periodo_hasta", in.PeriodoHasta, v)
		if v.Empty() {
			validation.DateOrder("periodo_hasta", in.PeriodoDesde, in.PeriodoHasta, v)
		}
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "fechas de avance inválidas", v)
		return
	}
	creado, err := h.Avances.Crear(obraID, in)
	if err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":                  "Avance de obra guardado correctamente",
		"id":                       creado.ID,
		"avance_periodo_ponderado": creado.AvancePeriodoPonderado,
		"items_insertados":         creado.ItemsInsertados,
	})
}

// AvanceItems: GET /api/obras/{obraId}/avance-items — vista legada por montos.
func (h *ObraHandler) AvanceItems(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	resumen, err := h.Avances.ItemsResumen(obraID)
	if err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resumen)
}

// Certificaciones: GET /api/obras/{obraId}/certificaciones — historial con
// avance ponderado mensual y acumulado.
func (h *ObraHandler) Certificaciones(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	resumen, err := h.Certs.ListarConAvance(obraID)
	if err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resumen)
}

// ItemsCertificados: GET /api/obras/{obraId}/items-certificados.
func (h *ObraHandler) ItemsCertificados(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	items, err := h.Certs.ItemsCertificados(obraID)
	if err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}
