package handlers

import (
	"errors"
	"net/http"

	"github.com/falube/certificaciones/httpx"
	"github.com/falube/certificaciones/internal/models"
	"github.com/falube/certificaciones/validation"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PliegoHandler maneja las líneas contratadas del pliego de una obra.
// CostoParcial se calcula siempre del lado del servidor como
// cantidad × costo unitario; nunca se confía en el valor del cliente.
type PliegoHandler struct{ DB *gorm.DB }

func NewPliegoHandler(db *gorm.DB) *PliegoHandler { return &PliegoHandler{DB: db} }

type pliegoItemReq struct {
	ItemGeneralID   uint            `json:"ItemGeneralId"`
	NumeroItem      string          `json:"numeroItem"`
	DescripcionItem string          `json:"descripcionItem"`
	UnidadMedida    string          `json:"unidadMedida"`
	Cantidad        decimal.Decimal `json:"cantidad"`
	CostoUnitario   decimal.Decimal `json:"costoUnitario"`
}

func (req *pliegoItemReq) validate() validation.Violations {
	v := validation.Violations{}
	if req.ItemGeneralID == 0 {
		v["ItemGeneralId"] = "required"
	}
	validation.Required("descripcionItem", req.DescripcionItem, v)
	validation.PositiveDecimal("cantidad", req.Cantidad, v)
	validation.PositiveDecimal("costoUnitario", req.CostoUnitario, v)
	return v
}

// Crear: POST /api/pliegos/{obraId}/pliego-item.
func (h *PliegoHandler) Crear(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	var req pliegoItemReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "json inválido", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "datos de pliego inválidos", v)
		return
	}

	item := models.PliegoItem{
		ObraID:          obraID,
		ItemGeneralID:   req.ItemGeneralID,
		NumeroItem:      req.NumeroItem,
		DescripcionItem: req.DescripcionItem,
		UnidadMedida:    req.UnidadMedida,
		Cantidad:        req.Cantidad,
		CostoUnitario:   req.CostoUnitario,
		CostoParcial:    req.Cantidad.Mul(req.CostoUnitario),
	}
	if err := h.DB.Create(&item).Error; err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

// Listar: GET /api/pliegos/{obraId}/pliego, en orden numérico de ítem.
func (h *PliegoHandler) Listar(w http.ResponseWriter, r *http.Request) {
	obraID, ok := idParam(w, r, "obraId")
	if !ok {
		return
	}
	items := []models.PliegoItem{}
	if err := h.DB.Where("obra_id = ?", obraID).
		Order("CAST(numero_item AS INTEGER) ASC").
		Find(&items).Error; err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// Actualizar: PUT /api/pliegos/{obraId}/pliego-item/{itemId}.
func (h *PliegoHandler) Actualizar(w http.ResponseWriter, r *http.Request) {
	itemID, ok := idParam(w, r, "itemId")
	if !ok {
		return
	}
	var item models.PliegoItem
	if err := h.DB.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "ítem no encontrado", nil)
			return
		}
		serviceError(w, err)
		return
	}

	var req pliegoItemReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "json inválido", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "datos de pliego inválidos", v)
		return
	}

	item.NumeroItem = req.NumeroItem
	item.DescripcionItem = req.DescripcionItem
	item.UnidadMedida = req.UnidadMedida
	item.Cantidad = req.Cantidad
	item.CostoUnitario = req.CostoUnitario
	item.CostoParcial = req.Cantidad.Mul(req.CostoUnitario)
	if req.ItemGeneralID != 0 {
		item.ItemGeneralID = req.ItemGeneralID
	}
	if err := h.DB.Save(&item).Error; err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// Eliminar: DELETE /api/pliegos/{obraId}/pliego-item/{itemId}.
func (h *PliegoHandler) Eliminar(w http.ResponseWriter, r *http.Request) {
	itemID, ok := idParam(w, r, "itemId")
	if !ok {
		return
	}
	var item models.PliegoItem
	if err := h.DB.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "ítem no encontrado", nil)
			return
		}
		serviceError(w, err)
		return
	}
	if err := h.DB.Delete(&item).Error; err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
