package db

import (
	"context"
	"database/sql"
	_ "embed"

	libdb "solarmon/backend/libs/db"
)

//go:embed schema.sql
var schema string

// NewPostgres connects to Postgres using the shared library helper.
func NewPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	return libdb.NewPostgresDB(ctx, dsn, libdb.Options{})
}

// Migrate creates the readings tables if they do not exist.
func Migrate(ctx context.Context, sqlDB *sql.DB) error {
	return libdb.ApplySchema(ctx, sqlDB, schema)
}
