package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"cohorts/internal/model"
)

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// Config is the GORM configuration shared by every dialect. Driver errors
// are translated so unique violations surface as gorm.ErrDuplicatedKey.
// Call it after the global logger is installed.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(),
	}
}

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.Cohort{},
		&model.Student{},
		&model.User{},
	}
}

// Migrate creates or updates the schema. With reset, existing tables are
// dropped first.
func Migrate(db *gorm.DB, reset bool) error {
	if reset {
		models := Models()
		for i := len(models) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(models[i]); err != nil {
				return fmt.Errorf("drop table: %w", err)
			}
		}
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
