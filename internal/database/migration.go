package database

import (
	"fmt"

	"lifelog/internal/models"

	"gorm.io/gorm"
)

// schema lists models in dependency order: parents before children.
func schema() []interface{} {
	return []interface{}{
		&models.Record{},
		&models.Media{},
		&models.Checkin{},
	}
}

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(schema()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// DropAll removes every table in reverse dependency order.
func DropAll(db *gorm.DB) error {
	tables := schema()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

// TableStatus describes whether one schema table exists.
type TableStatus struct {
	Table  string
	Exists bool
}

// Status reports the presence of each schema table.
func Status(db *gorm.DB) ([]TableStatus, error) {
	var out []TableStatus
	for _, m := range schema() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse model: %w", err)
		}
		out = append(out, TableStatus{
			Table:  stmt.Schema.Table,
			Exists: db.Migrator().HasTable(m),
		})
	}
	return out, nil
}
