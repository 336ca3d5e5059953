package services

import (
	"fmt"
	"testing"

	"github.com/falube/certificaciones/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Usuario{}, &models.Obra{}, &models.ItemGeneral{}, &models.PliegoItem{},
		&models.Planificacion{}, &models.PlanificacionItem{},
		&models.AvanceObra{}, &models.AvanceObraItem{},
		&models.Certificacion{}, &models.CertificacionItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("bad decimal literal: " + s)
	}
	return d
}

// seedObraConPliego crea una obra y un pliego con los costos parciales dados.
// Cantidad queda en 1 para que costo unitario y parcial coincidan.
func seedObraConPliego(t *testing.T, db *gorm.DB, reparticion string, costos ...string) (models.Obra, []models.PliegoItem) {
	t.Helper()
	obra := models.Obra{Nombre: "Pavimentación Av. Belgrano", Ubicacion: "La Banda", Reparticion: reparticion}
	if err := db.Create(&obra).Error; err != nil {
		t.Fatalf("seed obra: %v", err)
	}
	catalogo := models.ItemGeneral{Nombre: fmt.Sprintf("Rubro %s", t.Name()), UnidadMedida: "gl"}
	if err := db.Create(&catalogo).Error; err != nil {
		t.Fatalf("seed catálogo: %v", err)
	}
	items := make([]models.PliegoItem, 0, len(costos))
	for i, costo := range costos {
		item := models.PliegoItem{
			ObraID:          obra.ID,
			ItemGeneralID:   catalogo.ID,
			NumeroItem:      fmt.Sprintf("%d", i+1),
			DescripcionItem: fmt.Sprintf("Ítem %d", i+1),
			UnidadMedida:    "m2",
			Cantidad:        dec("1"),
			CostoUnitario:   dec(costo),
			CostoParcial:    dec(costo),
		}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("seed pliego item: %v", err)
		}
		items = append(items, item)
	}
	return obra, items
}

func casiIgual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 0.005
}
