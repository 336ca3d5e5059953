package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Certificacion es el documento periódico de pago de una obra: cabecera con el
// desglose financiero completo más un ítem por cada línea de pliego
// certificada. El desglose llega del llamador y se persiste tal cual; el
// sistema no lo recalcula.
type Certificacion struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	ObraID             uint   `gorm:"column:obra_id;not null;index" json:"obra_id"`
	PeriodoDesde       string `gorm:"type:date;not null" json:"periodo_desde"`
	PeriodoHasta       string `gorm:"type:date;not null" json:"periodo_hasta"`
	NumeroCertificado  string `gorm:"not null" json:"numero_certificado"`
	FechaCertificacion string `gorm:"type:date;not null" json:"fecha_certificacion"`
	Numero             *int   `json:"numero,omitempty"`

	Subtotal               decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"subtotal"`
	TotalNeto              decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"total_neto"`
	DeduccionAnticipo      decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"deduccion_anticipo"`
	FondoReparo            decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"fondo_reparo"`
	TasaInspeccion         decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"tasa_inspeccion"`
	SustitucionFondoReparo decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"sustitucion_fondo_reparo"`
	GastosGenerales        decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"gastos_generales"`
	Beneficios             decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"beneficios"`
	IVA                    decimal.Decimal `gorm:"column:iva;type:decimal(14,2);default:0" json:"iva"`
	IngresosBrutos         decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"ingresos_brutos"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []CertificacionItem `gorm:"foreignKey:CertificacionID" json:"items,omitempty"`
}

func (Certificacion) TableName() string { return "certificaciones" }

// CertificacionItem certifica un porcentaje (y su importe) de un ítem de
// pliego. Invariante central del sistema: la suma de avance_porcentaje sobre
// todas las certificaciones de la obra nunca puede superar 100 para un mismo
// ítem; se valida transaccionalmente antes de persistir.
type CertificacionItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	CertificacionID  uint            `gorm:"column:certificacion_id;not null;index" json:"certificacion_id"`
	PliegoItemID     uint            `gorm:"column:pliego_item_id;not null;index" json:"pliego_item_id"`
	AvancePorcentaje decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"avance_porcentaje"`
	Importe          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"importe"`

	PliegoItem *PliegoItem `gorm:"foreignKey:PliegoItemID" json:"pliegoItem,omitempty"`
}

func (CertificacionItem) TableName() string { return "certificacion_items" }
