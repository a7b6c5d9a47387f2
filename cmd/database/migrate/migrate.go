package migration

import (
	"Recipe-Generator/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// Migrate creates the single records table that backs every logical table
// of the gorm record store.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.StoredRecord{}); err != nil {
		log.Errorw("error migrating records table", "error", err)
		return err
	}
	log.Info("database migration complete")
	return nil
}
