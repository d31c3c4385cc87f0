package data

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates the settings table plus any extra models.
func Migrate(db *gorm.DB, models ...interface{}) error {
	all := append([]interface{}{&Setting{}}, models...)
	if err := db.AutoMigrate(all...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
