package services

import (
	"errors"
	"fmt"

	"github.com/falube/certificaciones/internal/models"

	"gorm.io/gorm"
)

// Curva son las series acumuladas de la obra, alineadas por período de
// planificación. El primer balde es siempre el sintético "Inicio". Los cuatro
// ejes de porcentaje usan la misma ponderación por costo (weighting.go);
// financiero arranca sembrado con el anticipo de la repartición.
type Curva struct {
	Labels                []string   `json:"labels"`
	Planificado           []float64  `json:"planificado"`
	Certificado           []float64  `json:"certificado"`
	Avance                []float64  `json:"avance"`
	CertNumerosPorPeriodo [][]string `json:"certNumerosPorPeriodo"`
	Financiero            []float64  `json:"financiero"`
	FinancieroMontos      []float64  `json:"financieroMontos"`
}

func emptyCurva() *Curva {
	return &Curva{
		Labels:                []string{},
		Planificado:           []float64{},
		Certificado:           []float64{},
		Avance:                []float64{},
		CertNumerosPorPeriodo: [][]string{},
		Financiero:            []float64{},
		FinancieroMontos:      []float64{},
	}
}

// CurvaService computa la curva de avance. Solo lee: nunca muta los libros y
// no guarda estado entre llamadas, así dos cómputos sin escrituras intermedias
// devuelven lo mismo.
type CurvaService struct{ DB *gorm.DB }

func NewCurvaService(db *gorm.DB) *CurvaService { return &CurvaService{DB: db} }

// periodo es un rango [desde, hasta] distinto, con las planificaciones que lo
// comparten (varias pueden declarar el mismo período).
type periodo struct {
	desde, hasta string
	planifIDs    []uint
}

type curvaInput struct {
	anticipoPorc float64
	total        float64
	costos       map[uint]float64
	periodos     []periodo
	planifItems  map[uint][]models.PlanificacionItem
	certs        []models.Certificacion
	certItems    map[uint][]models.CertificacionItem
	avances      []models.AvanceObra
	avanceItems  map[uint][]models.AvanceObraItem
}

// Compute carga el estado de los libros y corre el fold puro. Obra
// inexistente, pliego vacío o costo total cero devuelven la estructura vacía
// documentada, nunca un error ni una división por cero.
func (s *CurvaService) Compute(obraID uint) (*Curva, error) {
	var obra models.Obra
	if err := s.DB.First(&obra, obraID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyCurva(), nil
		}
		return nil, fmt.Errorf("cargar obra: %w", err)
	}

	var pliego []models.PliegoItem
	if err := s.DB.Where("obra_id = ?", obraID).Find(&pliego).Error; err != nil {
		return nil, fmt.Errorf("cargar pliego: %w", err)
	}
	if len(pliego) == 0 {
		return emptyCurva(), nil
	}
	total := TotalProyecto(pliego)
	if total == 0 {
		return emptyCurva(), nil
	}

	var planificaciones []models.Planificacion
	if err := s.DB.Where("obra_id = ?", obraID).Order("fecha_desde ASC").Find(&planificaciones).Error; err != nil {
		return nil, fmt.Errorf("cargar planificaciones: %w", err)
	}

	in := curvaInput{
		anticipoPorc: obra.AnticipoPorcentaje(),
		total:        total,
		costos:       CostoPorItem(pliego),
	}

	// Períodos distintos por clave exacta (desde, hasta), en orden cronológico.
	seen := map[string]int{}
	for _, p := range planificaciones {
		key := normDate(p.FechaDesde) + "__" + normDate(p.FechaHasta)
		if idx, ok := seen[key]; ok {
			in.periodos[idx].planifIDs = append(in.periodos[idx].planifIDs, p.ID)
			continue
		}
		seen[key] = len(in.periodos)
		in.periodos = append(in.periodos, periodo{desde: normDate(p.FechaDesde), hasta: normDate(p.FechaHasta), planifIDs: []uint{p.ID}})
	}

	if len(planificaciones) > 0 {
		planifIDs := make([]uint, 0, len(planificaciones))
		for _, p := range planificaciones {
			planifIDs = append(planifIDs, p.ID)
		}
		var items []models.PlanificacionItem
		if err := s.DB.Where("planificacion_id IN ?", planifIDs).Find(&items).Error; err != nil {
			return nil, fmt.Errorf("cargar items de planificación: %w", err)
		}
		in.planifItems = make(map[uint][]models.PlanificacionItem)
		for _, it := range items {
			in.planifItems[it.PlanificacionID] = append(in.planifItems[it.PlanificacionID], it)
		}
	}

	if err := s.DB.Where("obra_id = ?", obraID).Order("periodo_desde ASC, id ASC").Find(&in.certs).Error; err != nil {
		return nil, fmt.Errorf("cargar certificaciones: %w", err)
	}
	if len(in.certs) > 0 {
		certIDs := make([]uint, 0, len(in.certs))
		for _, c := range in.certs {
			certIDs = append(certIDs, c.ID)
		}
		var items []models.CertificacionItem
		if err := s.DB.Where("certificacion_id IN ?", certIDs).Find(&items).Error; err != nil {
			return nil, fmt.Errorf("cargar items certificados: %w", err)
		}
		in.certItems = make(map[uint][]models.CertificacionItem)
		for _, it := range items {
			in.certItems[it.CertificacionID] = append(in.certItems[it.CertificacionID], it)
		}
	}

	if err := s.DB.Where("obra_id = ?", obraID).Find(&in.avances).Error; err != nil {
		return nil, fmt.Errorf("cargar avances: %w", err)
	}
	if len(in.avances) > 0 {
		avanceIDs := make([]uint, 0, len(in.avances))
		for _, a := range in.avances {
			avanceIDs = append(avanceIDs, a.ID)
		}
		var items []models.AvanceObraItem
		if err := s.DB.Where("avance_obra_id IN ?", avanceIDs).Find(&items).Error; err != nil {
			return nil, fmt.Errorf("cargar items de avance: %w", err)
		}
		in.avanceItems = make(map[uint][]models.AvanceObraItem)
		for _, it := range items {
			in.avanceItems[it.AvanceObraID] = append(in.avanceItems[it.AvanceObraID], it)
		}
	}

	return buildCurva(in), nil
}

type avanceSinPeriodo struct {
	fecha string
	porc  float64
}

// buildCurva es el fold puro sobre los períodos ordenados. Todo el estado de
// acumulación vive en variables locales de esta llamada.
//
// Reglas heredadas del comportamiento de referencia, preservadas por
// compatibilidad aunque se las conoce frágiles:
//   - la certificación k se imputa al período k por posición, no por rango de
//     fechas: si se crean desfasadas queda mal atribuida;
//   - cada emisión se redondea a 2 decimales, con lo que el error de redondeo
//     se acumula aditivamente entre baldes.
func buildCurva(in curvaInput) *Curva {
	out := emptyCurva()

	// Avance físico pre-agregado por clave exacta de período; los partes sin
	// período se imputan después por contención de fecha.
	avancePorPeriodo := map[string]float64{}
	var sinPeriodo []avanceSinPeriodo
	for _, a := range in.avances {
		var porc float64
		for _, it := range in.avanceItems[a.ID] {
			porc += ContribucionPonderada(it.AvancePorcentaje.InexactFloat64(), in.costos[it.PliegoItemID], in.total)
		}
		porc = round2(porc)

		desde, hasta := normDate(a.PeriodoDesde), normDate(a.PeriodoHasta)
		if desde != "" && hasta != "" {
			key := desde + "__" + hasta
			avancePorPeriodo[key] = round2(avancePorPeriodo[key] + porc)
		} else {
			sinPeriodo = append(sinPeriodo, avanceSinPeriodo{fecha: normDate(a.FechaAvance), porc: porc})
		}
	}

	var acumPlan, acumCert, acumAvance float64

	anticipoMonto := (in.anticipoPorc / 100) * in.total
	montoFinAcum := anticipoMonto

	out.Labels = append(out.Labels, "Inicio")
	out.Planificado = append(out.Planificado, 0)
	out.Certificado = append(out.Certificado, 0)
	out.Avance = append(out.Avance, 0)
	out.CertNumerosPorPeriodo = append(out.CertNumerosPorPeriodo, []string{})
	out.Financiero = append(out.Financiero, round2(montoFinAcum/in.total*100))
	out.FinancieroMontos = append(out.FinancieroMontos, round2(montoFinAcum))

	for idx, per := range in.periodos {
		key := per.desde + "__" + per.hasta
		out.Labels = append(out.Labels, per.desde+" → "+per.hasta)

		var planPeriodo float64
		for _, planifID := range per.planifIDs {
			for _, it := range in.planifItems[planifID] {
				planPeriodo += ContribucionPonderada(it.PorcentajePlanificado.InexactFloat64(), in.costos[it.PliegoItemID], in.total)
			}
		}
		acumPlan += planPeriodo

		var certPeriodo float64
		numeros := []string{}
		if idx < len(in.certs) {
			cert := in.certs[idx]
			for _, it := range in.certItems[cert.ID] {
				certPeriodo += ContribucionPonderada(it.AvancePorcentaje.InexactFloat64(), in.costos[it.PliegoItemID], in.total)
			}
			if cert.NumeroCertificado != "" {
				numeros = append(numeros, cert.NumeroCertificado)
			}
			montoFinAcum += cert.TotalNeto.InexactFloat64()
		}
		acumCert += certPeriodo

		avancePeriodo := avancePorPeriodo[key]
		for _, a := range sinPeriodo {
			if a.fecha != "" && a.fecha >= per.desde && a.fecha <= per.hasta {
				avancePeriodo += a.porc
			}
		}
		avancePeriodo = round2(avancePeriodo)
		acumAvance += avancePeriodo

		out.Planificado = append(out.Planificado, round2(acumPlan))
		out.Certificado = append(out.Certificado, round2(acumCert))
		out.Avance = append(out.Avance, round2(acumAvance))
		out.CertNumerosPorPeriodo = append(out.CertNumerosPorPeriodo, numeros)
		out.Financiero = append(out.Financiero, round2(montoFinAcum/in.total*100))
		out.FinancieroMontos = append(out.FinancieroMontos, round2(montoFinAcum))
	}

	return out
}

// normDate recorta un valor de fecha a sus primeros 10 caracteres ISO
// ("2006-01-02"); sobre ese formato comparar strings es comparar fechas.
func normDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
