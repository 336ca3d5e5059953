package db

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/falube/certificaciones/internal/models"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models in dependency order; AutoMigrate creates parents before children.
func allModels() []interface{} {
	return []interface{}{
		&models.Usuario{}, &models.Obra{}, &models.ItemGeneral{}, &models.PliegoItem{},
		&models.Planificacion{}, &models.PlanificacionItem{},
		&models.AvanceObra{}, &models.AvanceObraItem{},
		&models.Certificacion{}, &models.CertificacionItem{},
	}
}

func ConnectAndMigrate(rawDSN string) (*gorm.DB, error) {
	dsn := NormalizeDSN(rawDSN)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN está vacío, revise la configuración del entorno")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	if IsSQLiteDSN(dsn) {
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	} else {
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			fmt.Println("Retrying DB connection...", err)
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	fmt.Println("[DB] Using DSN:", masked)

	// MIGRATIONS=1 runs sql migrations via golang-migrate (postgres only);
	// otherwise AutoMigrate keeps dev/test databases in shape.
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range allModels() {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	for _, table := range []string{"usuarios", "obras", "pliegoitems", "certificaciones"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}

	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(db)
	}
	return db, nil
}

// seed creates the superadmin account and a baseline catalog. Idempotent.
func seed(db *gorm.DB) {
	var existing models.Usuario
	if err := db.Where("email = ?", "admin@certificacion.com").First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		pass := os.Getenv("SEED_ADMIN_PASSWORD")
		if pass == "" {
			pass = "admin123"
		}
		hash, herr := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
		if herr == nil {
			db.Create(&models.Usuario{
				Nombre:   "Administrador Principal",
				Email:    "admin@certificacion.com",
				Password: string(hash),
				Rol:      models.RolAdministrador,
			})
		}
	}

	baseCatalogo := []models.ItemGeneral{
		{Nombre: "Movimiento de suelos", UnidadMedida: "m3"},
		{Nombre: "Hormigón armado", UnidadMedida: "m3"},
		{Nombre: "Mampostería", UnidadMedida: "m2"},
		{Nombre: "Instalación eléctrica", UnidadMedida: "gl"},
	}
	for _, ig := range baseCatalogo {
		var found models.ItemGeneral
		if err := db.Where("nombre = ?", ig.Nombre).First(&found).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			db.Create(&ig)
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
