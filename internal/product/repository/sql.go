package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/product/dto"
	"github.com/fekuna/omnipos-grocery-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

// productSelect joins the names shown next to a product. A supplier is shown
// by company name, falling back to the contact's full name.
const productSelect = `
    SELECT p.id, p.name, p.unit_type, p.category_id, p.supplier_id, p.barcode, p.created_at, p.updated_at,
        COALESCE(c.name, '') AS category_name,
        COALESCE(NULLIF(s.company_name, ''), TRIM(s.first_name || ' ' || s.last_name), '') AS supplier_name
    FROM products p
    LEFT JOIN categories c ON c.id = p.category_id
    LEFT JOIN users s ON s.id = p.supplier_id`

func (r *SQLRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (id, name, unit_type, category_id, supplier_id, barcode, created_at, updated_at)
        VALUES (:id, :name, :unit_type, :category_id, :supplier_id, :barcode, :created_at, :updated_at)
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return r.findOne(ctx, productSelect+` WHERE p.id = ?`, id)
}

func (r *SQLRepository) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	return r.findOne(ctx, productSelect+` WHERE p.barcode = ?`, barcode)
}

func (r *SQLRepository) FindByNameAndSupplier(ctx context.Context, supplierID string, names ...string) (*model.Product, error) {
	if len(names) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(productSelect+` WHERE p.supplier_id = ? AND p.name IN (?)`, supplierID, names)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, query, args...)
}

func (r *SQLRepository) FindByBaseName(ctx context.Context, categoryID, base string) ([]model.Product, error) {
	conn := database.Conn(ctx, r.DB)
	candidates := []model.Product{}
	query := productSelect + ` WHERE p.category_id = ? AND p.barcode IS NULL AND (p.name = ? OR p.name LIKE ?) ORDER BY p.created_at ASC, p.id ASC`
	if err := conn.SelectContext(ctx, &candidates, conn.Rebind(query), categoryID, base, base+" (%)"); err != nil {
		return nil, err
	}

	products := candidates[:0]
	for _, p := range candidates {
		if p.Name == base || p.Name == base+" ("+p.SupplierName+")" {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *SQLRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.Product, error) {
	conn := database.Conn(ctx, r.DB)
	var product model.Product
	err := conn.GetContext(ctx, &product, conn.Rebind(query+" LIMIT 1"), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	conn := database.Conn(ctx, r.DB)
	products := []model.Product{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CategoryID != "" {
		conditions = append(conditions, "p.category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.SupplierID != "" {
		conditions = append(conditions, "p.supplier_id = :supplier_id")
		args["supplier_id"] = f.SupplierID
	}
	if f.UnitType != "" {
		conditions = append(conditions, "p.unit_type = :unit_type")
		args["unit_type"] = strings.ToUpper(f.UnitType)
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(LOWER(p.name) LIKE :search OR p.barcode LIKE :search)")
		args["search"] = "%" + strings.ToLower(f.SearchQuery) + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM products p"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := conn.GetContext(ctx, &count, conn.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	orderBy := "p.created_at DESC"
	if f.SortBy != "" {
		// Whitelisted: the column is spliced into the query.
		switch f.SortBy {
		case "name":
			orderBy = "p.name"
		default:
			orderBy = "p.created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("%s%s ORDER BY %s, p.id ASC", productSelect, whereClause, orderBy)
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
	if err := conn.SelectContext(ctx, &products, conn.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *SQLRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            unit_type = :unit_type,
            category_id = :category_id,
            supplier_id = :supplier_id,
            barcode = :barcode,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *SQLRepository) UpdateName(ctx context.Context, id, name string, updatedAt time.Time) error {
	conn := database.Conn(ctx, r.DB)
	_, err := conn.ExecContext(ctx, conn.Rebind(`UPDATE products SET name = ?, updated_at = ? WHERE id = ?`), name, updatedAt, id)
	return err
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	conn := database.Conn(ctx, r.DB)
	_, err := conn.ExecContext(ctx, conn.Rebind("DELETE FROM products WHERE id = ?"), id)
	return err
}

func (r *SQLRepository) CountOrderItems(ctx context.Context, id string) (int, error) {
	conn := database.Conn(ctx, r.DB)
	var count int
	err := conn.GetContext(ctx, &count, conn.Rebind("SELECT count(*) FROM order_items WHERE product_id = ?"), id)
	return count, err
}
