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

type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

// Login: POST /api/auth/login. Un 400 genérico tanto para email inexistente
// como para contraseña incorrecta.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "json inválido", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "email y password son requeridos", nil)
		return
	}

	var user models.Usuario
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusBadRequest, "usuario no encontrado", nil)
			return
		}
		serviceError(w, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "contraseña incorrecta", nil)
		return
	}

	token, err := auth.CreateToken(user.ID, user.Email, user.Nombre, user.Rol)
	if err != nil {
		serviceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"token": token})
}
