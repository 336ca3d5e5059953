package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/falube/certificaciones/httpx"
	"github.com/falube/certificaciones/internal/models"

	"gorm.io/gorm"
)

type CatalogoHandler struct{ DB *gorm.DB }

func NewCatalogoHandler(db *gorm.DB) *CatalogoHandler { return &CatalogoHandler{DB: db} }

// Listar: GET /api/catalogo.
func (h *CatalogoHandler) Listar(w http.ResponseWriter, r *http.Request) {
	items := []models.ItemGeneral{}
	if err := h.DB.Order("nombre ASC").Find(&items).Error; err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// Crear: POST /api/catalogo. El nombre es único: duplicado devuelve 409.
func (h *CatalogoHandler) Crear(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nombre       string `json:"nombre"`
		UnidadMedida string `json:"unidadMedida"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "json inválido", nil)
		return
	}
	req.Nombre = strings.TrimSpace(req.Nombre)
	if req.Nombre == "" || strings.TrimSpace(req.UnidadMedida) == "" {
		httpx.JSONError(w, http.StatusBadRequest, "el nombre y la unidad son obligatorios", nil)
		return
	}

	var existente models.ItemGeneral
	err := h.DB.Where("nombre = ?", req.Nombre).First(&existente).Error
	if err == nil {
		httpx.JSONError(w, http.StatusConflict, "este nombre de item ya existe en el catálogo", nil)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		serviceError(w, err)
		return
	}

	item := models.ItemGeneral{Nombre: req.Nombre, UnidadMedida: req.UnidadMedida}
	if err := h.DB.Create(&item).Error; err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}
