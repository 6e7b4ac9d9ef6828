// Package testutil sets up throwaway SQLite databases for repository and use
// case tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/migrations"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/pkg/database/sqlite"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Epoch is the fixed reference time seeded rows are dated from.
var Epoch = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "grocery.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Run(context.Background(), db))
	return db
}

func SeedCategory(t *testing.T, db *sqlx.DB, name string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := db.Exec(db.Rebind(`INSERT INTO categories (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`),
		id, name, Epoch, Epoch)
	require.NoError(t, err)
	return id
}

func SeedUser(t *testing.T, db *sqlx.DB, u model.User) string {
	t.Helper()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt, u.UpdatedAt = Epoch, Epoch
	_, err := db.NamedExec(`
        INSERT INTO users (id, username, role, first_name, last_name, email, phone, address, customer_type, company_name, created_at, updated_at)
        VALUES (:id, :username, :role, :first_name, :last_name, :email, :phone, :address, :customer_type, :company_name, :created_at, :updated_at)
    `, &u)
	require.NoError(t, err)
	return u.ID
}

func SeedSupplier(t *testing.T, db *sqlx.DB, company string) string {
	t.Helper()
	return SeedUser(t, db, model.User{Role: model.RoleSupplier, CompanyName: company})
}

func SeedCustomer(t *testing.T, db *sqlx.DB, username string) string {
	t.Helper()
	return SeedUser(t, db, model.User{
		Role:         model.RoleCustomer,
		Username:     &username,
		FirstName:    username,
		CustomerType: model.CustomerOnline,
	})
}

func SeedProduct(t *testing.T, db *sqlx.DB, name string, unitType model.UnitType, categoryID, supplierID string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := db.Exec(db.Rebind(`
        INSERT INTO products (id, name, unit_type, category_id, supplier_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `), id, name, string(unitType), categoryID, supplierID, Epoch, Epoch)
	require.NoError(t, err)
	return id
}

// SeedBatch inserts a batch created `age` after Epoch. Later ages are newer
// in FIFO order.
func SeedBatch(t *testing.T, db *sqlx.DB, productID string, units, buying, selling string, age time.Duration) string {
	t.Helper()
	id := uuid.New().String()
	created := Epoch.Add(age)
	_, err := db.Exec(db.Rebind(`
        INSERT INTO product_batches (id, product_id, units, buying_price, selling_price, created_date, expire_date, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `), id, productID,
		decimal.RequireFromString(units), decimal.RequireFromString(buying), decimal.RequireFromString(selling),
		created, created.AddDate(1, 0, 0).Truncate(24*time.Hour), created)
	require.NoError(t, err)
	return id
}

func BatchUnits(t *testing.T, db *sqlx.DB, batchID string) decimal.Decimal {
	t.Helper()
	var units decimal.Decimal
	require.NoError(t, db.Get(&units, db.Rebind(`SELECT units FROM product_batches WHERE id = ?`), batchID))
	return units
}

// Fixture is a category, a supplier and a customer ready for product seeding.
type Fixture struct {
	DB         *sqlx.DB
	CategoryID string
	SupplierID string
	CustomerID string
	Username   string
}

func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	db := NewDB(t)
	return &Fixture{
		DB:         db,
		CategoryID: SeedCategory(t, db, "Dairy"),
		SupplierID: SeedSupplier(t, db, "Fresh Farms"),
		CustomerID: SeedCustomer(t, db, "alice"),
		Username:   "alice",
	}
}
