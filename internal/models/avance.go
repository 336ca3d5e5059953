package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AvanceObra es un parte de avance físico fechado. El período [desde, hasta]
// es opcional: los avances viejos sin período se imputan a la curva por
// contención de fecha_avance.
type AvanceObra struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ObraID       uint   `gorm:"column:obra_id;not null;index" json:"obra_id"`
	NumeroAvance int    `gorm:"not null" json:"numero_avance"`
	FechaAvance  string `gorm:"type:date;not null" json:"fecha_avance"`
	PeriodoDesde string `gorm:"type:date" json:"periodo_desde"`
	PeriodoHasta string `gorm:"type:date" json:"periodo_hasta"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []AvanceObraItem `gorm:"foreignKey:AvanceObraID" json:"items,omitempty"`
}

func (AvanceObra) TableName() string { return "avance_obras" }

// AvanceObraItem registra el porcentaje avanzado de un ítem de pliego en un
// parte. Se recorta a [0,100] al escribir.
//
// Cantidad, PrecioUnitario e Importe son el esquema viejo basado en montos;
// quedan nullables por compatibilidad con filas existentes, el camino nuevo es
// solo porcentaje.
type AvanceObraItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	AvanceObraID     uint            `gorm:"column:avance_obra_id;not null;index" json:"avance_obra_id"`
	PliegoItemID     uint            `gorm:"column:pliego_item_id;not null;index" json:"pliego_item_id"`
	AvancePorcentaje decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0" json:"avance_porcentaje"`

	Cantidad       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"cantidad,omitempty"`
	PrecioUnitario *decimal.Decimal `gorm:"type:decimal(12,2)" json:"precio_unitario,omitempty"`
	Importe        *decimal.Decimal `gorm:"type:decimal(14,2)" json:"importe,omitempty"`
}

func (AvanceObraItem) TableName() string { return "avance_obra_items" }
