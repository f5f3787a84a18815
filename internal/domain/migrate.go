package domain

import "gorm.io/gorm"

// Models lists every persisted entity in dependency order for AutoMigrate.
func Models() []any {
	return []any{
		&User{},
		&Company{},
		&Subscription{},
		&Payment{},
		&Review{},
		&FavoriteCompany{},
		&SavedSearch{},
		&Notification{},
		&AuditTrail{},
		&ActivityLog{},
		&LoginHistory{},
		&Advertisement{},
	}
}

// Migrate applies the schema for all registered models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
