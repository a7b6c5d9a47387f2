package config

import (
	migration "Recipe-Generator/cmd/database/migrate"
	"Recipe-Generator/internal/utils"
	"Recipe-Generator/pkg/store"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverAirtable = "airtable"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ConnectStore builds the record store selected by STORE_DRIVER.
func ConnectStore() (store.RecordStore, error) {
	driver := strings.ToLower(strings.TrimSpace(utils.GetConfig("STORE_DRIVER")))
	switch driver {
	case DriverAirtable:
		return store.NewAirtableStore(store.AirtableConfig{
			APIKey:  utils.GetConfig("AIRTABLE_API_KEY"),
			BaseID:  utils.GetConfig("AIRTABLE_BASE_ID"),
			BaseURL: utils.GetConfig("AIRTABLE_URL"),
			Timeout: utils.GetDurationConfig("AIRTABLE_TIMEOUT"),
		})
	case DriverPostgres, DriverSQLite:
		db, err := ConnectDB(driver)
		if err != nil {
			return nil, err
		}
		if err := migration.Migrate(db); err != nil {
			return nil, err
		}
		return store.NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}
}

func ConnectDB(driver string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(utils.GetConfig("SQLITE_PATH"))
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			utils.GetConfig("DB_HOST"),
			utils.GetConfig("DB_USER"),
			utils.GetConfig("DB_PASSWORD"),
			utils.GetConfig("DB_NAME"),
			utils.GetConfig("DB_PORT"),
		)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Errorw("database connection failed", "driver", driver, "error", err)
		return nil, err
	}
	return db, nil
}
