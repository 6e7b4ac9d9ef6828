package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-grocery-service/internal/apperror"
	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/user"
	"github.com/fekuna/omnipos-grocery-service/internal/user/dto"
	"github.com/fekuna/omnipos-grocery-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type userUseCase struct {
	repo   user.Repository
	logger logger.ZapLogger
}

func NewUserUseCase(repo user.Repository, log logger.ZapLogger) user.UseCase {
	return &userUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *userUseCase) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

func (uc *userUseCase) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.Validation("username", "is required")
	}
	u, err := uc.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("user", username)
	}
	return u, nil
}

func (uc *userUseCase) GetSupplier(ctx context.Context, id string) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != model.RoleSupplier {
		return nil, apperror.NotFound("supplier", id)
	}
	return u, nil
}

func (uc *userUseCase) FindOrCreateCreditCustomer(ctx context.Context, input *dto.CreditCustomerInput) (*model.User, error) {
	if input == nil {
		return nil, apperror.Validation("credit_customer", "details are required for credit purchases")
	}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, apperror.Validation("credit_customer.phone", "is required")
	}

	existing, err := uc.repo.FindCustomerByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return nil, apperror.Validation("credit_customer.first_name", "is required")
	}

	now := time.Now().UTC()
	u := &model.User{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Role:         model.RoleCustomer,
		FirstName:    firstName,
		LastName:     strings.TrimSpace(input.LastName),
		Email:        strings.TrimSpace(input.Email),
		Phone:        phone,
		Address:      strings.TrimSpace(input.Address),
		CustomerType: model.CustomerCredit,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	uc.logger.Info("credit customer registered", zap.String("user_id", u.ID))
	return u, nil
}
