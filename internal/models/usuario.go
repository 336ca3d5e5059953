package models

import "time"

// Roles persistidos en la tabla de usuarios.
const (
	RolAdministrador = "administrador"
	RolUsuario       = "usuario"
)

// Usuario del sistema. El usuario con ID 1 es el superadmin y es el único que
// puede crear otros usuarios.
type Usuario struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Nombre    string `gorm:"not null" json:"nombre"`
	Email     string `gorm:"unique;not null;index" json:"email"`
	Password  string `gorm:"not null" json:"-"` // hash bcrypt
	Rol       string `gorm:"not null;default:'usuario'" json:"rol"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Usuario) TableName() string { return "usuarios" }
