package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/Simplici0/giftquote/internal/db"
)

// Up runs all pending SQL migrations found in migrationsDir using the goose
// dialect that matches driver.
func Up(database *sql.DB, driver, migrationsDir string) error {
	dialect, err := dialectFor(driver)
	if err != nil {
		return err
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(database, migrationsDir); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}

func dialectFor(driver string) (string, error) {
	switch driver {
	case db.DriverSQLite:
		return "sqlite3", nil
	case db.DriverPostgres:
		return "postgres", nil
	}
	return "", fmt.Errorf("no migration dialect for driver %q", driver)
}
