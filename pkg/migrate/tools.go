package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
)

const sqlMigrationTemplate = `-- +goose Up
-- +goose StatementBegin
SELECT 'up SQL query';
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
SELECT 'down SQL query';
-- +goose StatementEnd
`

// CreateSQLMigration writes a timestamped goose SQL migration skeleton.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	if name == "" {
		return "", fmt.Errorf("name is required")
	}

	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
	version := time.Now().UTC().Format("20060102150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", version, slug))

	if err := os.WriteFile(path, []byte(sqlMigrationTemplate), 0o644); err != nil {
		return "", fmt.Errorf("write migration file: %w", err)
	}
	return path, nil
}

// ValidateDir checks that every migration in dir parses.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if _, err := goose.CollectMigrations(dir, 0, goose.MaxVersion); err != nil {
		return fmt.Errorf("collect migrations: %w", err)
	}
	return nil
}

// MigrateToVersion migrates up to the given goose version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect, dir, version string) error {
	target, err := strconv.ParseInt(version, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", version, err)
	}
	if err := goose.SetDialect(gooseDialect(dialect)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpToContext(ctx, db, dir, target); err != nil {
		return fmt.Errorf("goose up-to %d: %w", target, err)
	}
	return nil
}
