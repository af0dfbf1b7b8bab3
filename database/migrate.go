package database

import (
	"fmt"
	"strings"

	"archived_backend/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialector выбирает драйвер GORM по схеме DATABASE_URL:
// postgres://, postgresql://, mysql://, sqlite://, file:
func Dialector(dsn string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), nil

	case strings.Contains(dsn, "host=") && !strings.Contains(dsn, "://"):
		// key=value DSN для libpq
		return postgres.Open(dsn), nil

	case strings.HasPrefix(dsn, "mysql://"):
		mysqlDSN := strings.TrimPrefix(dsn, "mysql://")
		if !strings.Contains(strings.ToLower(mysqlDSN), "parsetime") {
			sep := "?"
			if strings.Contains(mysqlDSN, "?") {
				sep = "&"
			}
			mysqlDSN += sep + "parseTime=true"
		}
		return mysql.Open(mysqlDSN), nil

	case strings.HasPrefix(dsn, "sqlite://"):
		// sqlite:///./app.db -> ./app.db, sqlite:////var/app.db -> /var/app.db
		path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite://"), "/")
		if path == "" {
			return nil, fmt.Errorf("empty sqlite path in DATABASE_URL")
		}
		return sqlite.Open(path), nil

	case strings.HasPrefix(dsn, "file:"):
		return sqlite.Open(dsn), nil

	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme: %q", schemeOf(dsn))
	}
}

// Connect открывает соединение и проверяет его пингом
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	dialector, err := Dialector(dsn)
	if err != nil {
		return nil, err
	}

	logLevel := gormlogger.Warn
	if debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}

	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// Reset удаляет все таблицы и создает их заново. Данные теряются.
func Reset(db *gorm.DB) error {
	migrator := db.Migrator()

	if err := migrator.DropTable("item_tags"); err != nil {
		return fmt.Errorf("failed to drop item_tags: %w", err)
	}

	all := models.AllModels()
	// Удаляем в обратном порядке: сначала зависимые таблицы
	for i := len(all) - 1; i >= 0; i-- {
		if err := migrator.DropTable(all[i]); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", all[i], err)
		}
	}

	return AutoMigrate(db)
}

func schemeOf(dsn string) string {
	if idx := strings.Index(dsn, "://"); idx > 0 {
		return dsn[:idx]
	}
	return "unknown"
}
