package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una planificación.
const (
	PlanificacionAbierta = "abierta"
	PlanificacionCerrada = "cerrada"
)

// Planificacion es un período [desde, hasta] de una obra sobre el que se
// declara avance planificado por ítem. Los períodos de una misma obra no
// pueden solaparse (comparación inclusiva de fechas).
//
// Las fechas se guardan como DATE y se manejan en formato ISO "2006-01-02";
// sobre ese formato la comparación lexicográfica coincide con la cronológica.
type Planificacion struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ObraID     uint   `gorm:"column:obra_id;not null;index" json:"obraId"`
	Nombre     string `gorm:"not null" json:"nombre"`
	FechaDesde string `gorm:"type:date;not null" json:"fecha_desde"`
	FechaHasta string `gorm:"type:date;not null" json:"fecha_hasta"`
	Estado     string `gorm:"type:varchar(10);not null;default:'abierta'" json:"estado"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items []PlanificacionItem `gorm:"foreignKey:PlanificacionID" json:"items,omitempty"`
}

func (Planificacion) TableName() string { return "planificaciones" }

// PlanificacionItem asigna un porcentaje planificado a un ítem de pliego
// dentro de un período. No se recorta a [0,100] al escribir: el exceso global
// se maneja vía la consulta de porcentaje disponible.
type PlanificacionItem struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	PlanificacionID       uint            `gorm:"column:planificacion_id;not null;index" json:"planificacion_id"`
	PliegoItemID          uint            `gorm:"column:pliego_item_id;not null;index" json:"pliego_item_id"`
	PorcentajePlanificado decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"porcentaje_planificado"`
}

func (PlanificacionItem) TableName() string { return "planificacion_items" }
