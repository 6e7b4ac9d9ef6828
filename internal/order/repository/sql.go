package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/order/dto"
	"github.com/fekuna/omnipos-grocery-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

const orderColumns = `o.id, o.customer_name, o.payment_method, o.total_amount, o.status, o.order_date,
    o.order_type, o.inventory_adjusted, o.username, o.credit_customer_id, o.created_at, o.updated_at`

const itemSelect = `
    SELECT oi.id, oi.order_id, oi.line_no, oi.product_id, oi.units, oi.selling_price, oi.batch_id,
        COALESCE(p.name, '') AS product_name
    FROM order_items oi
    LEFT JOIN products p ON p.id = oi.product_id`

func (r *SQLRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
        INSERT INTO orders (
            id, customer_name, payment_method, total_amount, status, order_date,
            order_type, inventory_adjusted, username, credit_customer_id, created_at, updated_at
        )
        VALUES (
            :id, :customer_name, :payment_method, :total_amount, :status, :order_date,
            :order_type, :inventory_adjusted, :username, :credit_customer_id, :created_at, :updated_at
        )
    `
	if _, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, o); err != nil {
		return err
	}
	return r.insertItems(ctx, o.ID, o.Items)
}

func (r *SQLRepository) insertItems(ctx context.Context, orderID string, items []model.OrderItem) error {
	conn := database.Conn(ctx, r.DB)
	query := `
        INSERT INTO order_items (id, order_id, line_no, product_id, units, selling_price, batch_id)
        VALUES (:id, :order_id, :line_no, :product_id, :units, :selling_price, :batch_id)
    `
	for i := range items {
		items[i].OrderID = orderID
		if _, err := conn.NamedExecContext(ctx, query, &items[i]); err != nil {
			return fmt.Errorf("insert order item %d: %w", items[i].LineNo, err)
		}
	}
	return nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	conn := database.Conn(ctx, r.DB)
	var o model.Order
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = ? LIMIT 1`
	if err := conn.GetContext(ctx, &o, conn.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items := []model.OrderItem{}
	if err := conn.SelectContext(ctx, &items, conn.Rebind(itemSelect+` WHERE oi.order_id = ? ORDER BY oi.line_no ASC`), id); err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	conn := database.Conn(ctx, r.DB)
	orders := []model.Order{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Username != "" {
		conditions = append(conditions, "o.username = :username")
		args["username"] = f.Username
	}
	if f.Status != "" {
		conditions = append(conditions, "o.status = :status")
		args["status"] = strings.ToUpper(f.Status)
	}
	if f.OrderType != "" {
		conditions = append(conditions, "o.order_type = :order_type")
		args["order_type"] = strings.ToUpper(f.OrderType)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM orders o"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := conn.GetContext(ctx, &count, conn.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM orders o%s ORDER BY o.order_date DESC, o.id ASC", orderColumns, whereClause)
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
	if err := conn.SelectContext(ctx, &orders, conn.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

// attachItems loads the items of every order in one query.
func (r *SQLRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = i
		orders[i].Items = []model.OrderItem{}
	}

	query, args, err := sqlx.In(itemSelect+` WHERE oi.order_id IN (?) ORDER BY oi.order_id, oi.line_no ASC`, ids)
	if err != nil {
		return err
	}
	conn := database.Conn(ctx, r.DB)
	items := []model.OrderItem{}
	if err := conn.SelectContext(ctx, &items, conn.Rebind(query), args...); err != nil {
		return err
	}
	for _, it := range items {
		i := byID[it.OrderID]
		orders[i].Items = append(orders[i].Items, it)
	}
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET status = :status,
            inventory_adjusted = :inventory_adjusted,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, o)
	return err
}

func (r *SQLRepository) ReplaceItems(ctx context.Context, orderID string, items []model.OrderItem) error {
	conn := database.Conn(ctx, r.DB)
	if _, err := conn.ExecContext(ctx, conn.Rebind("DELETE FROM order_items WHERE order_id = ?"), orderID); err != nil {
		return err
	}
	return r.insertItems(ctx, orderID, items)
}
