package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS "Products" (
        id           BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
        product_name TEXT NOT NULL,
        product_type TEXT NOT NULL,
        price        NUMERIC(12, 2)
    )`,
	`CREATE INDEX IF NOT EXISTS products_product_type_idx ON "Products" (product_type)`,
	`CREATE TABLE IF NOT EXISTS "Receipts" (
        id          BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
        "Customer"  TEXT NOT NULL,
        "Createdby" TEXT NOT NULL,
        url         TEXT NOT NULL
    )`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS "Products" (
        id           INTEGER PRIMARY KEY AUTOINCREMENT,
        product_name TEXT NOT NULL,
        product_type TEXT NOT NULL,
        price        NUMERIC
    )`,
	`CREATE INDEX IF NOT EXISTS products_product_type_idx ON "Products" (product_type)`,
	`CREATE TABLE IF NOT EXISTS "Receipts" (
        id          INTEGER PRIMARY KEY AUTOINCREMENT,
        created_at  DATETIME NOT NULL,
        "Customer"  TEXT NOT NULL,
        "Createdby" TEXT NOT NULL,
        url         TEXT NOT NULL
    )`,
}

// Migrate creates the Products and Receipts collections when they are missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts := postgresSchema
	if db.DriverName() == DriverSQLite {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
