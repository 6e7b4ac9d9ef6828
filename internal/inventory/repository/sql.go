package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/pkg/database"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

const batchColumns = `b.id, b.product_id, b.units, b.buying_price, b.selling_price, b.created_date, b.expire_date, b.updated_at`

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Batch, error) {
	conn := database.Conn(ctx, r.DB)
	var batch model.Batch
	query := `SELECT ` + batchColumns + `, p.name AS product_name
        FROM product_batches b JOIN products p ON p.id = b.product_id
        WHERE b.id = ? LIMIT 1`
	err := conn.GetContext(ctx, &batch, conn.Rebind(query), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// ListByProduct returns the product's batches in FIFO order.
func (r *SQLRepository) ListByProduct(ctx context.Context, productID string) ([]model.Batch, error) {
	conn := database.Conn(ctx, r.DB)
	batches := []model.Batch{}
	query := `SELECT ` + batchColumns + ` FROM product_batches b
        WHERE b.product_id = ?
        ORDER BY b.created_date ASC, b.id ASC`
	err := conn.SelectContext(ctx, &batches, conn.Rebind(query), productID)
	return batches, err
}

func (r *SQLRepository) LatestWithStock(ctx context.Context, productID string) (*model.Batch, error) {
	conn := database.Conn(ctx, r.DB)
	var batch model.Batch
	query := `SELECT ` + batchColumns + ` FROM product_batches b
        WHERE b.product_id = ? AND b.units > 0
        ORDER BY b.created_date DESC, b.id DESC
        LIMIT 1`
	err := conn.GetContext(ctx, &batch, conn.Rebind(query), productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// FindExpiring lists batches with stock whose expiry falls in (from, to].
func (r *SQLRepository) FindExpiring(ctx context.Context, from, to time.Time) ([]model.Batch, error) {
	conn := database.Conn(ctx, r.DB)
	batches := []model.Batch{}
	query := `SELECT ` + batchColumns + `, p.name AS product_name
        FROM product_batches b JOIN products p ON p.id = b.product_id
        WHERE b.units > 0 AND b.expire_date > ? AND b.expire_date <= ?
        ORDER BY b.expire_date ASC, b.id ASC`
	err := conn.SelectContext(ctx, &batches, conn.Rebind(query), from, to)
	return batches, err
}

func (r *SQLRepository) Create(ctx context.Context, b *model.Batch) error {
	query := `
        INSERT INTO product_batches (id, product_id, units, buying_price, selling_price, created_date, expire_date, updated_at)
        VALUES (:id, :product_id, :units, :buying_price, :selling_price, :created_date, :expire_date, :updated_at)
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, b)
	return err
}

func (r *SQLRepository) Update(ctx context.Context, b *model.Batch) error {
	query := `
        UPDATE product_batches
        SET units = :units,
            buying_price = :buying_price,
            selling_price = :selling_price,
            expire_date = :expire_date,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, b)
	return err
}

func (r *SQLRepository) UpdateUnits(ctx context.Context, id string, units decimal.Decimal, updatedAt time.Time) error {
	conn := database.Conn(ctx, r.DB)
	res, err := conn.ExecContext(ctx, conn.Rebind(`UPDATE product_batches SET units = ?, updated_at = ? WHERE id = ?`),
		units, updatedAt, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update batch %s: no rows affected", id)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	conn := database.Conn(ctx, r.DB)
	_, err := conn.ExecContext(ctx, conn.Rebind(`DELETE FROM product_batches WHERE id = ?`), id)
	return err
}

func (r *SQLRepository) CountReferences(ctx context.Context, batchID string) (int, error) {
	conn := database.Conn(ctx, r.DB)
	var count int
	err := conn.GetContext(ctx, &count, conn.Rebind(`SELECT count(*) FROM order_items WHERE batch_id = ?`), batchID)
	return count, err
}

func (r *SQLRepository) LogMovement(ctx context.Context, m *model.StockMovement) error {
	query := `
        INSERT INTO stock_movements (
            id, product_id, batch_id, movement_type,
            units_change, units_before, units_after,
            reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :product_id, :batch_id, :movement_type,
            :units_change, :units_before, :units_after,
            :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, m)
	return err
}

func (r *SQLRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	conn := database.Conn(ctx, r.DB)
	items := []model.StockMovement{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.BatchID != "" {
		conditions = append(conditions, "batch_id = :batch_id")
		args["batch_id"] = f.BatchID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM stock_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := conn.GetContext(ctx, &count, conn.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC, id DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	err = conn.SelectContext(ctx, &items, conn.Rebind(listQuery), listArgs...)
	return items, count, err
}
