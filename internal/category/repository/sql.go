package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-grocery-service/internal/category/dto"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, name, description, created_at, updated_at)
        VALUES (:id, :name, :description, :created_at, :updated_at)
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	return r.findOne(ctx, `SELECT * FROM categories WHERE id = ?`, id)
}

func (r *SQLRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	return r.findOne(ctx, `SELECT * FROM categories WHERE LOWER(name) = LOWER(?)`, name)
}

func (r *SQLRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.Category, error) {
	conn := database.Conn(ctx, r.DB)
	var category model.Category
	err := conn.GetContext(ctx, &category, conn.Rebind(query+" LIMIT 1"), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	conn := database.Conn(ctx, r.DB)
	categories := []model.Category{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Name != "" {
		conditions = append(conditions, "LOWER(name) LIKE :name")
		args["name"] = "%" + strings.ToLower(f.Name) + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM categories"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := conn.GetContext(ctx, &count, conn.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM categories" + whereClause + " ORDER BY name ASC"
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
	if err := conn.SelectContext(ctx, &categories, conn.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}

	return categories, count, nil
}

func (r *SQLRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET name = :name,
            description = :description,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	conn := database.Conn(ctx, r.DB)
	_, err := conn.ExecContext(ctx, conn.Rebind("DELETE FROM categories WHERE id = ?"), id)
	return err
}

func (r *SQLRepository) CountProducts(ctx context.Context, id string) (int, error) {
	conn := database.Conn(ctx, r.DB)
	var count int
	err := conn.GetContext(ctx, &count, conn.Rebind("SELECT count(*) FROM products WHERE category_id = ?"), id)
	return count, err
}
