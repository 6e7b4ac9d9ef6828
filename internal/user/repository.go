package user

import (
	"context"

	"github.com/fekuna/omnipos-grocery-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindCustomerByPhone(ctx context.Context, phone string) (*model.User, error)
}
