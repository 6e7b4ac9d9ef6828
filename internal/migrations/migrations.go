package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is plain DDL understood by both PostgreSQL and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE,
		role TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		customer_type TEXT NOT NULL DEFAULT '',
		company_name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_phone ON users (phone)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_customer_phone ON users (phone) WHERE role = 'CUSTOMER' AND phone <> ''`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		unit_type TEXT NOT NULL DEFAULT 'DISCRETE',
		category_id TEXT NOT NULL REFERENCES categories (id),
		supplier_id TEXT NOT NULL REFERENCES users (id),
		barcode TEXT UNIQUE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_supplier_name ON products (supplier_id, name)`,
	`CREATE TABLE IF NOT EXISTS product_batches (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products (id),
		units NUMERIC NOT NULL,
		buying_price NUMERIC NOT NULL,
		selling_price NUMERIC NOT NULL,
		created_date TIMESTAMP NOT NULL,
		expire_date TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_batches_fifo ON product_batches (product_id, created_date, id)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		customer_name TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL DEFAULT '',
		total_amount NUMERIC NOT NULL,
		status TEXT NOT NULL,
		order_date TIMESTAMP NOT NULL,
		order_type TEXT NOT NULL,
		inventory_adjusted BOOLEAN NOT NULL DEFAULT FALSE,
		username TEXT,
		credit_customer_id TEXT REFERENCES users (id),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders (id),
		line_no INTEGER NOT NULL,
		product_id TEXT NOT NULL REFERENCES products (id),
		units NUMERIC NOT NULL,
		selling_price NUMERIC NOT NULL,
		batch_id TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id, line_no)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_batch ON order_items (batch_id)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		batch_id TEXT NOT NULL,
		movement_type TEXT NOT NULL,
		units_change NUMERIC NOT NULL,
		units_before NUMERIC NOT NULL,
		units_after NUMERIC NOT NULL,
		reference_type TEXT,
		reference_id TEXT,
		notes TEXT NOT NULL DEFAULT '',
		created_by TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements (product_id, created_at)`,
}

// Run creates every table and index that does not exist yet.
func Run(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
