package store

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LoadSQLite loads the fleet tables from a SQLite database. A SQLite source
// is expected to be already typed and cleaned, so no preprocessing pass runs.
// Missing tables are logged and skipped, matching the CSV loader.
func LoadSQLite(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %s: %w", path, err)
	}

	s := &Store{}
	if err := loadTable(db, &s.Drivers); err != nil {
		return nil, err
	}
	if err := loadTable(db, &s.Trucks); err != nil {
		return nil, err
	}
	if err := loadTable(db, &s.Customers); err != nil {
		return nil, err
	}
	if err := loadTable(db, &s.Routes); err != nil {
		return nil, err
	}
	if err := loadTable(db, &s.Loads); err != nil {
		return nil, err
	}
	if err := loadTable(db, &s.Trips); err != nil {
		return nil, err
	}
	if err := loadTable(db, &s.DeliveryEvents); err != nil {
		return nil, err
	}
	if err := loadTable(db, &s.FuelPurchases); err != nil {
		return nil, err
	}
	if err := loadTable(db, &s.MaintenanceRecords); err != nil {
		return nil, err
	}
	if err := loadTable(db, &s.SafetyIncidents); err != nil {
		return nil, err
	}
	if err := loadTable(db, &s.DriverMonthly); err != nil {
		return nil, err
	}
	if err := loadTable(db, &s.TruckUtilization); err != nil {
		return nil, err
	}
	return s, nil
}

// tableNamer is implemented by every store model.
type tableNamer interface {
	TableName() string
}

// loadTable reads all rows of one model's table into dst.
func loadTable[T tableNamer](db *gorm.DB, dst *[]T) error {
	var model T
	name := model.TableName()
	if !db.Migrator().HasTable(name) {
		log.Printf("Warning: table %s not found, skipping", name)
		return nil
	}
	if err := db.Table(name).Find(dst).Error; err != nil {
		return fmt.Errorf("reading table %s: %w", name, err)
	}
	log.Printf("Loaded %s: %d rows", name, len(*dst))
	return nil
}
