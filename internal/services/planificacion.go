package services

import (
	"errors"
	"fmt"

	"github.com/falube/certificaciones/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var cien = decimal.NewFromInt(100)

// PlanificacionService crea períodos de planificación y resuelve el
// porcentaje disponible por ítem.
type PlanificacionService struct{ DB *gorm.DB }

func NewPlanificacionService(db *gorm.DB) *PlanificacionService {
	return &PlanificacionService{DB: db}
}

type PlanificacionItemInput struct {
	PliegoItemID          uint            `json:"pliego_item_id"`
	PorcentajePlanificado decimal.Decimal `json:"porcentaje_planificado"`
}

type PlanificacionInput struct {
	FechaDesde string                   `json:"fecha_desde"`
	FechaHasta string                   `json:"fecha_hasta"`
	Items      []PlanificacionItemInput `json:"items"`
}

// Crear valida y persiste un período con sus líneas en una transacción.
// Rechaza rangos invertidos y cualquier intersección (inclusiva) con un
// período existente de la misma obra; períodos pegados día contra día sí se
// aceptan. Las líneas no se recortan: el sobre-planificado solo se filtra en
// ItemsDisponibles.
func (s *PlanificacionService) Crear(obraID uint, in PlanificacionInput) (*models.Planificacion, error) {
	if in.FechaDesde == "" || in.FechaHasta == "" || len(in.Items) == 0 {
		return nil, Validationf("datos incompletos para la planificación")
	}
	if in.FechaDesde > in.FechaHasta {
		return nil, Validationf("la fecha desde no puede ser mayor que la fecha hasta")
	}

	planificacion := models.Planificacion{
		ObraID:     obraID,
		Nombre:     fmt.Sprintf("Planificación %s → %s", in.FechaDesde, in.FechaHasta),
		FechaDesde: in.FechaDesde,
		FechaHasta: in.FechaHasta,
		Estado:     models.PlanificacionAbierta,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Intersección de rangos: [a,b] toca [c,d] sii a <= d y b >= c.
		var count int64
		if err := tx.Model(&models.Planificacion{}).
			Where("obra_id = ? AND fecha_desde <= ? AND fecha_hasta >= ?", obraID, in.FechaHasta, in.FechaDesde).
			Count(&count).Error; err != nil {
			return fmt.Errorf("buscar solapamiento: %w", err)
		}
		if count > 0 {
			return Validationf("ya existe una planificación en ese período")
		}

		if err := tx.Create(&planificacion).Error; err != nil {
			return fmt.Errorf("crear planificación: %w", err)
		}

		for _, item := range in.Items {
			var pliego models.PliegoItem
			if err := tx.First(&pliego, item.PliegoItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return Validationf("ítem de pliego no encontrado: %d", item.PliegoItemID)
				}
				return fmt.Errorf("cargar ítem de pliego: %w", err)
			}
			linea := models.PlanificacionItem{
				PlanificacionID:       planificacion.ID,
				PliegoItemID:          item.PliegoItemID,
				PorcentajePlanificado: item.PorcentajePlanificado,
			}
			if err := tx.Create(&linea).Error; err != nil {
				return fmt.Errorf("crear línea de planificación: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &planificacion, nil
}

// ItemDisponible es un ítem de pliego al que todavía le queda porcentaje sin
// planificar.
type ItemDisponible struct {
	models.PliegoItem
	PorcentajeDisponible decimal.Decimal `json:"porcentajeDisponible"`
}

// ItemsDisponibles devuelve, por ítem del pliego, 100 menos la suma de lo ya
// planificado en todos los períodos, filtrando los que quedaron en cero o
// menos. Un ítem sobre-planificado simplemente desaparece de la lista.
func (s *PlanificacionService) ItemsDisponibles(obraID uint) ([]ItemDisponible, error) {
	var pliego []models.PliegoItem
	if err := s.DB.Where("obra_id = ?", obraID).Find(&pliego).Error; err != nil {
		return nil, fmt.Errorf("cargar pliego: %w", err)
	}

	var lineas []models.PlanificacionItem
	if err := s.DB.
		Joins("JOIN planificaciones ON planificaciones.id = planificacion_items.planificacion_id").
		Where("planificaciones.obra_id = ?", obraID).
		Find(&lineas).Error; err != nil {
		return nil, fmt.Errorf("cargar líneas planificadas: %w", err)
	}

	planificadoPorItem := map[uint]decimal.Decimal{}
	for _, l := range lineas {
		planificadoPorItem[l.PliegoItemID] = planificadoPorItem[l.PliegoItemID].Add(l.PorcentajePlanificado)
	}

	disponibles := []ItemDisponible{}
	for _, item := range pliego {
		disponible := cien.Sub(planificadoPorItem[item.ID])
		if disponible.IsPositive() {
			disponibles = append(disponibles, ItemDisponible{PliegoItem: item, PorcentajeDisponible: disponible})
		}
	}
	return disponibles, nil
}
