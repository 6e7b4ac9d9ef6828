package repository

import (
	"context"
	"database/sql"
	"errors"

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

func (r *SQLRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (
            id, username, role, first_name, last_name, email, phone,
            address, customer_type, company_name, created_at, updated_at
        )
        VALUES (
            :id, :username, :role, :first_name, :last_name, :email, :phone,
            :address, :customer_type, :company_name, :created_at, :updated_at
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, u)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE id = ?`, id)
}

func (r *SQLRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE username = ?`, username)
}

// FindCustomerByPhone returns the earliest registered customer with the
// phone number. Suppliers and staff sharing it are ignored.
func (r *SQLRepository) FindCustomerByPhone(ctx context.Context, phone string) (*model.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE phone = ? AND role = ? ORDER BY created_at ASC, id ASC`, phone, model.RoleCustomer)
}

func (r *SQLRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	conn := database.Conn(ctx, r.DB)
	var u model.User
	err := conn.GetContext(ctx, &u, conn.Rebind(query+" LIMIT 1"), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
