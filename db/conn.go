// Package db contains the database connection setup
package db

import (
	"fmt"
	"sigantara/file-api/internal/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the configured database and migrates the schema. SQLite is
// the default for single-node deployments, postgres for anything shared.
func New() (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	dsn := viper.GetString("database.dsn")

	switch viper.GetString("database.type") {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn))
	default:
		db, err = gorm.Open(sqlite.Open(dsn))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(model.Team{}, model.User{}, model.File{}, model.ProcessingLog{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
