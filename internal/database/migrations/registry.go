package migrations

import (
	"github.com/jmylchreest/auratheme/internal/models"
	"gorm.io/gorm"
)

// AllMigrations returns every migration in order.
func AllMigrations() []Migration {
	return []Migration{
		migration001Preferences(),
	}
}

// migration001Preferences creates the namespaced key-value table. Rows are
// deliberately not seeded: an absent key is how the theme store recognises
// first boot and falls back to the default palette.
func migration001Preferences() Migration {
	return Migration{
		Version:     "001",
		Description: "Create preferences table",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.Preference{})
		},
		Down: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("preferences")
		},
	}
}
