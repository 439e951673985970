package migration

import (
	"Snack-Tracker/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Errorf("error migrating user table: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.StoreNode{}); err != nil {
		log.Errorf("error migrating store node table: %v", err)
		return err
	}

	log.Info("database migration complete")
	return nil
}
