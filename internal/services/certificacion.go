package services

import (
	"errors"
	"fmt"

	"github.com/falube/certificaciones/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CertificacionService crea certificaciones haciendo cumplir el techo de 100%
// por ítem y expone las consultas derivadas (acumulados, resúmenes, detalle).
type CertificacionService struct{ DB *gorm.DB }

func NewCertificacionService(db *gorm.DB) *CertificacionService {
	return &CertificacionService{DB: db}
}

// CertificacionTotales es el desglose financiero tal como lo arma el
// llamador. Se persiste sin recalcular.
type CertificacionTotales struct {
	Subtotal               decimal.Decimal `json:"subtotal"`
	TotalNeto              decimal.Decimal `json:"totalNeto"`
	DeduccionAnticipo      decimal.Decimal `json:"deduccionAnticipo"`
	FondoReparo            decimal.Decimal `json:"fondoReparo"`
	TasaInspeccion         decimal.Decimal `json:"tasaInspeccion"`
	SustitucionFondoReparo decimal.Decimal `json:"sustitucionFondoReparo"`
	GastosGenerales        decimal.Decimal `json:"gastosGenerales"`
	Beneficios             decimal.Decimal `json:"beneficios"`
	IVA                    decimal.Decimal `json:"iva"`
	IngresosBrutos         decimal.Decimal `json:"ingresosBrutos"`
}

type CertificacionItemInput struct {
	PliegoItemID     uint            `json:"pliego_item_id"`
	AvancePorcentaje decimal.Decimal `json:"avance_porcentaje"`
	Importe          decimal.Decimal `json:"importe"`
}

type CertificacionInput struct {
	NumeroCertificado  string                   `json:"numero_certificado"`
	FechaCertificacion string                   `json:"fecha_certificacion"`
	PeriodoDesde       string                   `json:"periodo_desde"`
	PeriodoHasta       string                   `json:"periodo_hasta"`
	Items              []CertificacionItemInput `json:"items"`
	Totales            CertificacionTotales     `json:"totales"`
}

// Crear valida y persiste una certificación completa en una sola transacción:
// cualquier línea que viole el techo deshace todo, nunca queda cabecera ni
// línea parcial. La lectura del acumulado previo y la escritura de las líneas
// nuevas comparten la transacción; en postgres la fila de la obra se toma
// FOR UPDATE al entrar, así dos envíos concurrentes de la misma obra se
// serializan y el segundo ve lo que escribió el primero (sqlite serializa las
// escrituras por sí solo). El lock va sobre la obra y no sobre las cabeceras
// previas: una obra sin certificaciones no tiene filas que lockear.
func (s *CertificacionService) Crear(obraID uint, in CertificacionInput) (uint, error) {
	if len(in.Items) == 0 {
		return 0, Validationf("la certificación debe contener ítems")
	}

	var certID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		obraQ := tx
		if tx.Dialector.Name() == "postgres" {
			obraQ = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var obra models.Obra
		if err := obraQ.First(&obra, obraID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "obra", ID: obraID}
			}
			return fmt.Errorf("cargar obra: %w", err)
		}

		var certIDs []uint
		if err := tx.Model(&models.Certificacion{}).Where("obra_id = ?", obraID).
			Pluck("id", &certIDs).Error; err != nil {
			return fmt.Errorf("cargar certificaciones previas: %w", err)
		}

		for _, item := range in.Items {
			if !item.AvancePorcentaje.IsPositive() {
				return Validationf("el avance del ítem %d debe ser mayor a 0", item.PliegoItemID)
			}

			acumuladoPrevio := decimal.Zero
			if len(certIDs) > 0 {
				var previas []models.CertificacionItem
				if err := tx.Where("pliego_item_id = ? AND certificacion_id IN ?", item.PliegoItemID, certIDs).
					Find(&previas).Error; err != nil {
					return fmt.Errorf("cargar acumulado previo: %w", err)
				}
				for _, p := range previas {
					acumuladoPrevio = acumuladoPrevio.Add(p.AvancePorcentaje)
				}
			}

			if acumuladoPrevio.Add(item.AvancePorcentaje).GreaterThan(cien) {
				return Validationf("el ítem %d supera el 100%% certificado (acumulado previo %s%%, nuevo %s%%)",
					item.PliegoItemID, acumuladoPrevio.String(), item.AvancePorcentaje.String())
			}
		}

		cert := models.Certificacion{
			ObraID:                 obraID,
			PeriodoDesde:           in.PeriodoDesde,
			PeriodoHasta:           in.PeriodoHasta,
			NumeroCertificado:      in.NumeroCertificado,
			FechaCertificacion:     in.FechaCertificacion,
			Subtotal:               in.Totales.Subtotal,
			TotalNeto:              in.Totales.TotalNeto,
			DeduccionAnticipo:      in.Totales.DeduccionAnticipo,
			FondoReparo:            in.Totales.FondoReparo,
			TasaInspeccion:         in.Totales.TasaInspeccion,
			SustitucionFondoReparo: in.Totales.SustitucionFondoReparo,
			GastosGenerales:        in.Totales.GastosGenerales,
			Beneficios:             in.Totales.Beneficios,
			IVA:                    in.Totales.IVA,
			IngresosBrutos:         in.Totales.IngresosBrutos,
		}
		if err := tx.Create(&cert).Error; err != nil {
			return fmt.Errorf("crear certificación: %w", err)
		}

		for _, item := range in.Items {
			linea := models.CertificacionItem{
				CertificacionID:  cert.ID,
				PliegoItemID:     item.PliegoItemID,
				AvancePorcentaje: item.AvancePorcentaje,
				Importe:          item.Importe,
			}
			if err := tx.Create(&linea).Error; err != nil {
				return fmt.Errorf("crear ítem certificado: %w", err)
			}
		}

		certID = cert.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return certID, nil
}

// AcumuladoPorItem suma el porcentaje certificado por ítem de pliego sobre
// todas las certificaciones de la obra.
func (s *CertificacionService) AcumuladoPorItem(obraID uint) (map[uint]decimal.Decimal, error) {
	var lineas []models.CertificacionItem
	if err := s.DB.
		Joins("JOIN certificaciones ON certificaciones.id = certificacion_items.certificacion_id").
		Where("certificaciones.obra_id = ?", obraID).
		Find(&lineas).Error; err != nil {
		return nil, fmt.Errorf("cargar ítems certificados: %w", err)
	}
	acumulados := map[uint]decimal.Decimal{}
	for _, l := range lineas {
		acumulados[l.PliegoItemID] = acumulados[l.PliegoItemID].Add(l.AvancePorcentaje)
	}
	return acumulados, nil
}

// Listar devuelve las certificaciones de una obra en orden cronológico, solo
// cabeceras.
func (s *CertificacionService) Listar(obraID uint) ([]models.Certificacion, error) {
	certs := []models.Certificacion{}
	if err := s.DB.Where("obra_id = ?", obraID).
		Order("fecha_certificacion ASC, id ASC").
		Find(&certs).Error; err != nil {
		return nil, fmt.Errorf("cargar certificaciones: %w", err)
	}
	return certs, nil
}

// CertificacionResumen es una certificación con su avance ponderado del mes y
// el acumulado hasta ella inclusive.
type CertificacionResumen struct {
	ID                 uint    `json:"id"`
	NumeroCertificado  string  `json:"numero_certificado"`
	PeriodoDesde       string  `json:"periodo_desde"`
	PeriodoHasta       string  `json:"periodo_hasta"`
	FechaCertificacion string  `json:"fecha_certificacion"`
	AvanceMensual      float64 `json:"avance_mensual"`
	AvanceAcumulado    float64 `json:"avance_acumulado"`
}

// ListarConAvance anota cada certificación con su contribución ponderada por
// costo y el acumulado corrido. Pliego vacío o de costo cero devuelve lista
// vacía.
func (s *CertificacionService) ListarConAvance(obraID uint) ([]CertificacionResumen, error) {
	var pliego []models.PliegoItem
	if err := s.DB.Where("obra_id = ?", obraID).Find(&pliego).Error; err != nil {
		return nil, fmt.Errorf("cargar pliego: %w", err)
	}
	resumen := []CertificacionResumen{}
	if len(pliego) == 0 {
		return resumen, nil
	}
	total := TotalProyecto(pliego)
	if total == 0 {
		return resumen, nil
	}
	costos := CostoPorItem(pliego)

	var certs []models.Certificacion
	if err := s.DB.Where("obra_id = ?", obraID).
		Order("fecha_certificacion ASC, id ASC").
		Preload("Items").
		Find(&certs).Error; err != nil {
		return nil, fmt.Errorf("cargar certificaciones: %w", err)
	}

	var acumulado float64
	for _, c := range certs {
		var mensual float64
		for _, it := range c.Items {
			mensual += ContribucionPonderada(it.AvancePorcentaje.InexactFloat64(), costos[it.PliegoItemID], total)
		}
		acumulado += mensual
		resumen = append(resumen, CertificacionResumen{
			ID:                 c.ID,
			NumeroCertificado:  c.NumeroCertificado,
			PeriodoDesde:       c.PeriodoDesde,
			PeriodoHasta:       c.PeriodoHasta,
			FechaCertificacion: c.FechaCertificacion,
			AvanceMensual:      round2(mensual),
			AvanceAcumulado:    round2(acumulado),
		})
	}
	return resumen, nil
}

// CertificacionDetalle es el DTO completo de una certificación: cabecera,
// desglose financiero, ítems con su línea de pliego y el porcentaje financiero
// del certificado sobre el total de la obra.
type CertificacionDetalle struct {
	Certificado DetalleCabecera `json:"certificado"`
	Items       []DetalleItem   `json:"items"`
}

type DetalleCabecera struct {
	ID                 uint   `json:"id"`
	ObraID             uint   `json:"obraId"`
	ObraNombre         string `json:"obraNombre"`
	Reparticion        string `json:"reparticion"`
	NumeroCertificado  string `json:"numero_certificado"`
	FechaCertificacion string `json:"fecha_certificacion"`
	PeriodoDesde       string `json:"periodo_desde"`
	PeriodoHasta       string `json:"periodo_hasta"`

	Subtotal               decimal.Decimal `json:"subtotal"`
	TotalNeto              decimal.Decimal `json:"total_neto"`
	DeduccionAnticipo      decimal.Decimal `json:"deduccion_anticipo"`
	FondoReparo            decimal.Decimal `json:"fondo_reparo"`
	TasaInspeccion         decimal.Decimal `json:"tasa_inspeccion"`
	SustitucionFondoReparo decimal.Decimal `json:"sustitucion_fondo_reparo"`
	GastosGenerales        decimal.Decimal `json:"gastos_generales"`
	Beneficios             decimal.Decimal `json:"beneficios"`
	IVA                    decimal.Decimal `json:"iva"`
	IngresosBrutos         decimal.Decimal `json:"ingresos_brutos"`

	TotalProyecto        float64 `json:"totalProyecto"`
	PorcentajeFinanciero float64 `json:"porcentajeFinanciero"`
}

type DetalleItem struct {
	ID               uint            `json:"id"`
	PliegoItemID     uint            `json:"pliego_item_id"`
	NumeroItem       string          `json:"numeroItem"`
	Descripcion      string          `json:"descripcion"`
	Unidad           string          `json:"unidad"`
	CantidadTotal    decimal.Decimal `json:"cantidad_total"`
	AvancePorcentaje decimal.Decimal `json:"avance_porcentaje"`
	Importe          decimal.Decimal `json:"importe"`
}

// Detalle carga una certificación con su obra y sus ítems de pliego.
func (s *CertificacionService) Detalle(certID uint) (*CertificacionDetalle, error) {
	var cert models.Certificacion
	if err := s.DB.Preload("Items.PliegoItem").First(&cert, certID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "certificación", ID: certID}
		}
		return nil, fmt.Errorf("cargar certificación: %w", err)
	}

	var obra models.Obra
	if err := s.DB.First(&obra, cert.ObraID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cargar obra: %w", err)
	}

	var pliego []models.PliegoItem
	if err := s.DB.Where("obra_id = ?", cert.ObraID).Find(&pliego).Error; err != nil {
		return nil, fmt.Errorf("cargar pliego: %w", err)
	}
	total := TotalProyecto(pliego)

	porcentajeFinanciero := 0.0
	if total != 0 {
		porcentajeFinanciero = round2(cert.Subtotal.InexactFloat64() / total * 100)
	}

	detalle := &CertificacionDetalle{
		Certificado: DetalleCabecera{
			ID:                     cert.ID,
			ObraID:                 cert.ObraID,
			ObraNombre:             obra.Nombre,
			Reparticion:            obra.Reparticion,
			NumeroCertificado:      cert.NumeroCertificado,
			FechaCertificacion:     cert.FechaCertificacion,
			PeriodoDesde:           cert.PeriodoDesde,
			PeriodoHasta:           cert.PeriodoHasta,
			Subtotal:               cert.Subtotal,
			TotalNeto:              cert.TotalNeto,
			DeduccionAnticipo:      cert.DeduccionAnticipo,
			FondoReparo:            cert.FondoReparo,
			TasaInspeccion:         cert.TasaInspeccion,
			SustitucionFondoReparo: cert.SustitucionFondoReparo,
			GastosGenerales:        cert.GastosGenerales,
			Beneficios:             cert.Beneficios,
			IVA:                    cert.IVA,
			IngresosBrutos:         cert.IngresosBrutos,
			TotalProyecto:          total,
			PorcentajeFinanciero:   porcentajeFinanciero,
		},
		Items: []DetalleItem{},
	}
	for _, ci := range cert.Items {
		item := DetalleItem{
			ID:               ci.ID,
			PliegoItemID:     ci.PliegoItemID,
			AvancePorcentaje: ci.AvancePorcentaje,
			Importe:          ci.Importe,
		}
		if ci.PliegoItem != nil {
			item.NumeroItem = ci.PliegoItem.NumeroItem
			item.Descripcion = ci.PliegoItem.DescripcionItem
			item.Unidad = ci.PliegoItem.UnidadMedida
			item.CantidadTotal = ci.PliegoItem.Cantidad
		}
		detalle.Items = append(detalle.Items, item)
	}
	return detalle, nil
}

// ItemCertificado es el avance certificado acumulado de un ítem de pliego,
// topeado en 100 para presentación.
type ItemCertificado struct {
	PliegoItemID    uint    `json:"pliego_item_id"`
	NumeroItem      string  `json:"numeroItem"`
	Descripcion     string  `json:"descripcion"`
	Unidad          string  `json:"unidad"`
	AvanceAcumulado float64 `json:"avance_acumulado"`
}

// ItemsCertificados lista el pliego en orden numérico con el acumulado
// certificado de cada ítem.
func (s *CertificacionService) ItemsCertificados(obraID uint) ([]ItemCertificado, error) {
	var pliego []models.PliegoItem
	if err := s.DB.Where("obra_id = ?", obraID).
		Order("CAST(numero_item AS INTEGER) ASC").
		Find(&pliego).Error; err != nil {
		return nil, fmt.Errorf("cargar pliego: %w", err)
	}
	result := []ItemCertificado{}
	if len(pliego) == 0 {
		return result, nil
	}

	acumulados, err := s.AcumuladoPorItem(obraID)
	if err != nil {
		return nil, err
	}

	for _, p := range pliego {
		acumulado := round2(acumulados[p.ID].InexactFloat64())
		if acumulado > 100 {
			acumulado = 100
		}
		result = append(result, ItemCertificado{
			PliegoItemID:    p.ID,
			NumeroItem:      p.NumeroItem,
			Descripcion:     p.DescripcionItem,
			Unidad:          p.UnidadMedida,
			AvanceAcumulado: acumulado,
		})
	}
	return result, nil
}
