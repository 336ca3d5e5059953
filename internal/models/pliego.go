package models

import "github.com/shopspring/decimal"

// ItemGeneral es el catálogo maestro de rubros de obra con su unidad de medida.
type ItemGeneral struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Nombre       string `gorm:"unique;not null" json:"nombre"`
	UnidadMedida string `gorm:"not null" json:"unidadMedida"`
}

func (ItemGeneral) TableName() string { return "itemgenerals" }

// PliegoItem es una línea contratada del pliego de una obra. CostoParcial debe
// valer Cantidad × CostoUnitario al momento de escritura; toda la ponderación
// de porcentajes del sistema se apoya en estos costos.
type PliegoItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ObraID          uint            `gorm:"not null;index" json:"obraId"`
	ItemGeneralID   uint            `gorm:"not null" json:"ItemGeneralId"`
	NumeroItem      string          `gorm:"not null" json:"numeroItem"` // se ordena numéricamente
	DescripcionItem string          `gorm:"not null" json:"descripcionItem"`
	UnidadMedida    string          `json:"unidadMedida"`
	Cantidad        decimal.Decimal `gorm:"type:decimal(15,5);not null" json:"cantidad"`
	CostoUnitario   decimal.Decimal `gorm:"type:decimal(15,5);not null" json:"costoUnitario"`
	CostoParcial    decimal.Decimal `gorm:"type:decimal(15,5);not null" json:"costoParcial"`

	ItemGeneral *ItemGeneral `gorm:"foreignKey:ItemGeneralID" json:"itemGeneral,omitempty"`
}

func (PliegoItem) TableName() string { return "pliegoitems" }
