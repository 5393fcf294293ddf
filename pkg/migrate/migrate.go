package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"strings"

	"github.com/leonfashion/fashionshop-backend/pkg/logger"
	"github.com/pressly/goose/v3"
)

// DefaultDir is where the repository keeps its SQL migrations.
const DefaultDir = "migrations"

// Dialect maps a database driver name to the goose dialect string.
func Dialect(driver string) string {
	if strings.EqualFold(driver, "sqlite") {
		return "sqlite3"
	}
	return "postgres"
}

// Run applies all pending SQL migrations from dir against the provided
// database handle.
func Run(ctx context.Context, sqlDB *sql.DB, dialect, dir string, logg *logger.Logger) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "database migrations applied")
	}
	return nil
}

// Status prints the migration status table.
func Status(ctx context.Context, sqlDB *sql.DB, dialect, dir string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	return goose.StatusContext(ctx, sqlDB, dir)
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, sqlDB *sql.DB, dialect, dir string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	return goose.DownContext(ctx, sqlDB, dir)
}
