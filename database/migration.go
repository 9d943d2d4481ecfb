package database

import (
	"home-booking/database/seeders"
	"home-booking/logger"
)

// RunMigration connects, migrates the schema and seeds the service catalog.
// Used by the standalone migrate tool.
func RunMigration() error {
	db, err := InitDB()
	if err != nil {
		return err
	}

	if err := seeders.SeedServices(db); err != nil {
		return err
	}
	logger.Success("Service catalog seeded")

	return nil
}
