package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Offer{},
		&Order{},
		&Payment{},
	); err != nil {
		return err
	}

	// Partial unique index backing the single-active-draft invariant
	// against concurrent draft creations. AutoMigrate cannot express
	// the WHERE clause.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uni_orders_user_draft
		 ON orders (user_id) WHERE status = 'draft'`,
	).Error
}
