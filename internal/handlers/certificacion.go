package handlers

import (
	"net/http"

	"github.com/falube/certificaciones/httpx"
	"github.com/falube/certificaciones/internal/services"
	"github.com/falube/certificaciones/validation"

	"gorm.io/gorm"
)

type CertificacionHandler struct {
	Svc *services.CertificacionService
}

func NewCertificacionHandler(db *gorm.DB) *CertificacionHandler {
	return &CertificacionHandler{Svc: services.NewCertificacionService(db)}
}

// Crear: POST /api/certificaciones/obras/{obraId}/certificaciones. El techo de
// 100% por ítem se valida dentro de la transacción del servicio; acá solo se
// decodifica y se mapea el error.
func (h *CertificacionHandler) Crear(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	var in services.CertificacionInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "json inválido", nil)
		return
	}
	v := validation.Violations{}
	validation.ISODate("fecha_certificacion", in.FechaCertificacion, v)
	validation.ISODate("periodo_desde", in.PeriodoDesde, v)
	validation.ISODate("periodo_hasta", in.PeriodoHasta, v)
	if v.Empty() {
		validation.DateOrder("periodo_hasta", in.PeriodoDesde, in.PeriodoHasta, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "fechas de certificación inválidas", v)
		return
	}
	certID, err := h.Svc.Crear(obraID, in)
	if err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"ok": true, "certificacion_id": certID})
}

// Listar: GET /api/certificaciones/obras/{obraId}/certificaciones — solo
// cabeceras, para el historial.
func (h *CertificacionHandler) Listar(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	certs, err := h.Svc.Listar(obraID)
	if err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, certs)
}

// Acumulado: GET /api/certificaciones/obras/{obraId}/certificaciones/acumulado.
func (h *CertificacionHandler) Acumulado(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	acumulados, err := h.Svc.AcumuladoPorItem(obraID)
	if err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true, "data": acumulados})
}

// Detalle: GET /api/certificaciones/{id}/detalle.
func (h *CertificacionHandler) Detalle(w http.ResponseWriter, r *http.Request) {
	certID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	detalle, err := h.Svc.Detalle(certID)
	if err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"certificado": detalle.Certificado,
		"items":       detalle.Items,
	})
}
