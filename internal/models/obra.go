package models

import "time"

// Reparticiones conocidas. El porcentaje de anticipo financiero depende de
// cuál administra la obra.
const (
	ReparticionMunicipalidad = "municipalidad_sgo"
	ReparticionArquitectura  = "direccion_arquitectura"
)

// Obra es el proyecto contratado: dueña exclusiva de su pliego, sus
// planificaciones, sus avances y sus certificaciones.
type Obra struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Nombre      string `gorm:"not null" json:"nombre"`
	Ubicacion   string `json:"ubicacion"`
	Reparticion string `gorm:"type:varchar(40)" json:"reparticion"` // vacío = sin anticipo
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AnticipoPorcentaje devuelve el porcentaje de anticipo financiero que
// corresponde a la repartición de la obra.
func (o Obra) AnticipoPorcentaje() float64 {
	switch o.Reparticion {
	case ReparticionMunicipalidad:
		return 40
	case ReparticionArquitectura:
		return 20
	default:
		return 0
	}
}

// ReparticionValida reporta si el valor recibido es una repartición conocida.
func ReparticionValida(s string) bool {
	return s == ReparticionMunicipalidad || s == ReparticionArquitectura
}
