package services

import (
	"reflect"
	"testing"

	"github.com/falube/certificaciones/internal/models"
)

func TestCurvaObraInexistente(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewCurvaService(db)

	curva, err := svc.Compute(12345)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(curva.Labels) != 0 || curva.Labels == nil {
		t.Fatalf("expected empty non-nil labels, got %#v", curva.Labels)
	}
	if curva.Planificado == nil || curva.CertNumerosPorPeriodo == nil || curva.FinancieroMontos == nil {
		t.Fatalf("empty curva must not carry nil slices: %+v", curva)
	}
}

func TestCurvaPliegoVacio(t *testing.T) {
	db := setupTestDB(t, t.Name())
	obra := models.Obra{Nombre: "Obra sin pliego"}
	if err := db.Create(&obra).Error; err != nil {
		t.Fatalf("seed obra: %v", err)
	}
	curva, err := NewCurvaService(db).Compute(obra.ID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(curva.Labels) != 0 {
		t.Fatalf("expected empty curva, got %v", curva.Labels)
	}
}

func TestCurvaAnticipoInicial(t *testing.T) {
	db := setupTestDB(t, t.Name())
	obra, pliego := seedObraConPliego(t, db, models.ReparticionMunicipalidad, "1000")

	planif := models.Planificacion{ObraID: obra.ID, Nombre: "marzo", FechaDesde: "2024-03-01", FechaHasta: "2024-03-31", Estado: models.PlanificacionAbierta}
	if err := db.Create(&planif).Error; err != nil {
		t.Fatalf("seed planif: %v", err)
	}
	if err := db.Create(&models.PlanificacionItem{PlanificacionID: planif.ID, PliegoItemID: pliego[0].ID, PorcentajePlanificado: dec("40")}).Error; err != nil {
		t.Fatalf("seed línea: %v", err)
	}

	curva, err := NewCurvaService(db).Compute(obra.ID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if curva.Labels[0] != "Inicio" {
		t.Fatalf("primer balde = %q", curva.Labels[0])
	}
	// Municipalidad adelanta 40% del total: 400 sobre 1000.
	if !casiIgual(curva.Financiero[0], 40) || !casiIgual(curva.FinancieroMontos[0], 400) {
		t.Fatalf("anticipo inicial: financiero=%v montos=%v", curva.Financiero[0], curva.FinancieroMontos[0])
	}
	if curva.Planificado[0] != 0 || curva.Certificado[0] != 0 || curva.Avance[0] != 0 {
		t.Fatalf("Inicio debe arrancar en cero los ejes físicos: %+v", curva)
	}
}

func TestCurvaCompleta(t *testing.T) {
	db := setupTestDB(t, t.Name())
	obra, pliego := seedObraConPliego(t, db, "", "1000")
	itemID := pliego[0].ID

	seedPlanif := func(desde, hasta, porcentaje string) {
		t.Helper()
		p := models.Planificacion{ObraID: obra.ID, Nombre: desde, FechaDesde: desde, FechaHasta: hasta, Estado: models.PlanificacionAbierta}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("seed planif: %v", err)
		}
		if err := db.Create(&models.PlanificacionItem{PlanificacionID: p.ID, PliegoItemID: itemID, PorcentajePlanificado: dec(porcentaje)}).Error; err != nil {
			t.Fatalf("seed línea planif: %v", err)
		}
	}
	seedPlanif("2024-03-01", "2024-03-31", "40")
	seedPlanif("2024-04-01", "2024-04-30", "35")

	cert := models.Certificacion{
		ObraID: obra.ID, PeriodoDesde: "2024-03-01", PeriodoHasta: "2024-03-31",
		NumeroCertificado: "1-2024", FechaCertificacion: "2024-03-31", TotalNeto: dec("250"),
	}
	if err := db.Create(&cert).Error; err != nil {
		t.Fatalf("seed cert: %v", err)
	}
	if err := db.Create(&models.CertificacionItem{CertificacionID: cert.ID, PliegoItemID: itemID, AvancePorcentaje: dec("30"), Importe: dec("300")}).Error; err != nil {
		t.Fatalf("seed línea cert: %v", err)
	}

	// Un parte con período exacto y otro viejo sin período, imputado por fecha.
	conPeriodo := models.AvanceObra{ObraID: obra.ID, NumeroAvance: 1, FechaAvance: "2024-03-20", PeriodoDesde: "2024-03-01", PeriodoHasta: "2024-03-31"}
	if err := db.Create(&conPeriodo).Error; err != nil {
		t.Fatalf("seed avance: %v", err)
	}
	if err := db.Create(&models.AvanceObraItem{AvanceObraID: conPeriodo.ID, PliegoItemID: itemID, AvancePorcentaje: dec("20")}).Error; err != nil {
		t.Fatalf("seed línea avance: %v", err)
	}
	sinPeriodo := models.AvanceObra{ObraID: obra.ID, NumeroAvance: 2, FechaAvance: "2024-04-15"}
	if err := db.Create(&sinPeriodo).Error; err != nil {
		t.Fatalf("seed avance: %v", err)
	}
	if err := db.Create(&models.AvanceObraItem{AvanceObraID: sinPeriodo.ID, PliegoItemID: itemID, AvancePorcentaje: dec("10")}).Error; err != nil {
		t.Fatalf("seed línea avance: %v", err)
	}

	svc := NewCurvaService(db)
	curva, err := svc.Compute(obra.ID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	wantLabels := []string{"Inicio", "2024-03-01 → 2024-03-31", "2024-04-01 → 2024-04-30"}
	if !reflect.DeepEqual(curva.Labels, wantLabels) {
		t.Fatalf("labels = %v", curva.Labels)
	}
	if !reflect.DeepEqual(curva.Planificado, []float64{0, 40, 75}) {
		t.Fatalf("planificado = %v", curva.Planificado)
	}
	// Una sola certificación: se imputa al primer período y el acumulado queda plano.
	if !reflect.DeepEqual(curva.Certificado, []float64{0, 30, 30}) {
		t.Fatalf("certificado = %v", curva.Certificado)
	}
	if !reflect.DeepEqual(curva.Avance, []float64{0, 20, 30}) {
		t.Fatalf("avance = %v", curva.Avance)
	}
	if !reflect.DeepEqual(curva.CertNumerosPorPeriodo, [][]string{{}, {"1-2024"}, {}}) {
		t.Fatalf("certNumeros = %v", curva.CertNumerosPorPeriodo)
	}
	// Sin anticipo: arranca en 0 y suma el neto del certificado.
	if !reflect.DeepEqual(curva.FinancieroMontos, []float64{0, 250, 250}) {
		t.Fatalf("financieroMontos = %v", curva.FinancieroMontos)
	}
	if !reflect.DeepEqual(curva.Financiero, []float64{0, 25, 25}) {
		t.Fatalf("financiero = %v", curva.Financiero)
	}

	// Sin escrituras intermedias, recomputar devuelve lo mismo.
	otra, err := svc.Compute(obra.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if !reflect.DeepEqual(curva, otra) {
		t.Fatalf("compute no es estable: %+v vs %+v", curva, otra)
	}
}

func TestCurvaPeriodosDuplicadosSeFusionan(t *testing.T) {
	db := setupTestDB(t, t.Name())
	obra, pliego := seedObraConPliego(t, db, "", "1000")

	// Dos planificaciones con el mismo rango exacto comparten balde.
	for _, porcentaje := range []string{"10", "15"} {
		p := models.Planificacion{ObraID: obra.ID, Nombre: "marzo", FechaDesde: "2024-03-01", FechaHasta: "2024-03-31", Estado: models.PlanificacionAbierta}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("seed planif: %v", err)
		}
		if err := db.Create(&models.PlanificacionItem{PlanificacionID: p.ID, PliegoItemID: pliego[0].ID, PorcentajePlanificado: dec(porcentaje)}).Error; err != nil {
			t.Fatalf("seed línea: %v", err)
		}
	}

	curva, err := NewCurvaService(db).Compute(obra.ID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(curva.Labels) != 2 {
		t.Fatalf("expected Inicio + 1 período, got %v", curva.Labels)
	}
	if !casiIgual(curva.Planificado[1], 25) {
		t.Fatalf("planificado fusionado = %v, expected 25", curva.Planificado[1])
	}
}
