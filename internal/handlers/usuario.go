package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/falube/certificaciones/auth"
	"github.com/falube/certificaciones/httpx"
	"github.com/falube/certificaciones/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UsuarioHandler struct{ DB *gorm.DB }

func NewUsuarioHandler(db *gorm.DB) *UsuarioHandler { return &UsuarioHandler{DB: db} }

// superadminID es el único usuario habilitado a crear cuentas.
const superadminID = 1

// Crear: POST /api/usuarios.
func (h *UsuarioHandler) Crear(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok || p.UserID != superadminID {
		httpx.JSONError(w, http.StatusForbidden, "no tenés permisos para crear usuarios", nil)
		return
	}

	var req struct {
		Nombre   string `json:"nombre"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Rol      string `json:"rol"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "json inválido", nil)
		return
	}
	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Email = strings.TrimSpace(req.Email)
	if req.Nombre == "" || req.Email == "" || req.Password == "" || req.Rol == "" {
		httpx.JSONError(w, http.StatusBadRequest, "nombre, email, contraseña y rol son obligatorios", nil)
		return
	}
	if req.Rol != models.RolAdministrador && req.Rol != models.RolUsuario {
		httpx.JSONError(w, http.StatusBadRequest, "el rol debe ser 'administrador' o 'usuario'", nil)
		return
	}

	var existente models.Usuario
	err := h.DB.Where("email = ?", req.Email).First(&existente).Error
	if err == nil {
		httpx.JSONError(w, http.StatusBadRequest, "ya existe un usuario con ese email", nil)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		serviceError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serviceError(w, err)
		return
	}
	nuevo := models.Usuario{Nombre: req.Nombre, Email: req.Email, Password: string(hash), Rol: req.Rol}
	if err := h.DB.Create(&nuevo).Error; err != nil {
		serviceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"ok": true,
		"usuario": map[string]any{
			"id":     nuevo.ID,
			"nombre": nuevo.Nombre,
			"email":  nuevo.Email,
			"rol":    nuevo.Rol,
		},
	})
}
