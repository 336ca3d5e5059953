package services

import (
	"fmt"

	"github.com/falube/certificaciones/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AvanceService registra partes de avance físico por porcentaje.
type AvanceService struct{ DB *gorm.DB }

func NewAvanceService(db *gorm.DB) *AvanceService { return &AvanceService{DB: db} }

type AvanceItemInput struct {
	PliegoItemID     uint            `json:"pliego_item_id"`
	AvancePorcentaje decimal.Decimal `json:"avance_porcentaje"`
}

type AvanceInput struct {
	NumeroAvance int               `json:"numero_avance"`
	FechaAvance  string            `json:"fecha_avance"`
	PeriodoDesde string            `json:"periodo_desde"`
	PeriodoHasta string            `json:"periodo_hasta"`
	Items        []AvanceItemInput `json:"items"`
}

// AvanceCreado resume el parte recién guardado, incluido el porcentaje
// ponderado del período con el mismo criterio que las certificaciones.
type AvanceCreado struct {
	ID                     uint    `json:"id"`
	AvancePeriodoPonderado float64 `json:"avance_periodo_ponderado"`
	ItemsInsertados        int     `json:"items_insertados"`
}

// Crear persiste cabecera y líneas en una transacción. Los porcentajes se
// recortan a [0,100] al escribir; el período es opcional (los partes sin
// período se imputan a la curva por fecha).
func (s *AvanceService) Crear(obraID uint, in AvanceInput) (*AvanceCreado, error) {
	if in.NumeroAvance == 0 || in.FechaAvance == "" || len(in.Items) == 0 {
		return nil, Validationf("datos de avance incompletos")
	}

	var out AvanceCreado
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var pliego []models.PliegoItem
		if err := tx.Where("obra_id = ?", obraID).Find(&pliego).Error; err != nil {
			return fmt.Errorf("cargar pliego: %w", err)
		}
		total := TotalProyecto(pliego)
		costos := CostoPorItem(pliego)

		avance := models.AvanceObra{
			ObraID:       obraID,
			NumeroAvance: in.NumeroAvance,
			FechaAvance:  in.FechaAvance,
			PeriodoDesde: in.PeriodoDesde,
			PeriodoHasta: in.PeriodoHasta,
		}
		if err := tx.Create(&avance).Error; err != nil {
			return fmt.Errorf("crear avance: %w", err)
		}

		lineas := make([]models.AvanceObraItem, 0, len(in.Items))
		for _, item := range in.Items {
			lineas = append(lineas, models.AvanceObraItem{
				AvanceObraID:     avance.ID,
				PliegoItemID:     item.PliegoItemID,
				AvancePorcentaje: clampPorcentaje(item.AvancePorcentaje),
			})
		}
		if err := tx.Create(&lineas).Error; err != nil {
			return fmt.Errorf("crear líneas de avance: %w", err)
		}

		var ejecutado float64
		for _, l := range lineas {
			ejecutado += costos[l.PliegoItemID] * l.AvancePorcentaje.InexactFloat64() / 100
		}
		ponderado := 0.0
		if total != 0 {
			ponderado = ejecutado / total * 100
		}

		out = AvanceCreado{ID: avance.ID, AvancePeriodoPonderado: round2(ponderado), ItemsInsertados: len(lineas)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ItemAvanceResumen es la vista por ítem del esquema viejo basado en montos:
// importe avanzado acumulado contra el importe total contratado.
type ItemAvanceResumen struct {
	PliegoItemID    uint    `json:"pliego_item_id"`
	NumeroItem      string  `json:"numeroItem"`
	Descripcion     string  `json:"descripcion"`
	UnidadMedida    string  `json:"unidadMedida"`
	ImporteTotal    float64 `json:"importe_total"`
	ImporteAvanzado float64 `json:"importe_avanzado"`
	Avance          float64 `json:"avance"`
}

// ItemsResumen suma los importes legados de los partes por ítem de pliego.
// Los partes nuevos solo cargan porcentaje y no aportan importe acá.
func (s *AvanceService) ItemsResumen(obraID uint) ([]ItemAvanceResumen, error) {
	var pliego []models.PliegoItem
	if err := s.DB.Where("obra_id = ?", obraID).Order("numero_item ASC").Find(&pliego).Error; err != nil {
		return nil, fmt.Errorf("cargar pliego: %w", err)
	}

	var lineas []models.AvanceObraItem
	if err := s.DB.
		Joins("JOIN avance_obras ON avance_obras.id = avance_obra_items.avance_obra_id").
		Where("avance_obras.obra_id = ?", obraID).
		Find(&lineas).Error; err != nil {
		return nil, fmt.Errorf("cargar líneas de avance: %w", err)
	}
	avanzadoPorItem := map[uint]float64{}
	for _, l := range lineas {
		if l.Importe != nil {
			avanzadoPorItem[l.PliegoItemID] += l.Importe.InexactFloat64()
		}
	}

	resumen := []ItemAvanceResumen{}
	for _, item := range pliego {
		importeTotal := item.CostoParcial.InexactFloat64()
		avanzado := avanzadoPorItem[item.ID]
		avance := 0.0
		if importeTotal > 0 {
			avance = round2(avanzado / importeTotal * 100)
		}
		resumen = append(resumen, ItemAvanceResumen{
			PliegoItemID:    item.ID,
			NumeroItem:      item.NumeroItem,
			Descripcion:     item.DescripcionItem,
			UnidadMedida:    item.UnidadMedida,
			ImporteTotal:    importeTotal,
			ImporteAvanzado: avanzado,
			Avance:          avance,
		})
	}
	return resumen, nil
}

func clampPorcentaje(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(cien) {
		return cien
	}
	return p
}
