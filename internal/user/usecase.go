package user

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-grocery-service/internal/model"
	"github.com/fekuna/omnipos-grocery-service/internal/user/dto"
)

// UseCase is the user directory consulted by the catalog and the order
// engine. Registration and authentication live elsewhere.
type UseCase interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetSupplier(ctx context.Context, id string) (*model.User, error)

	// FindOrCreateCreditCustomer returns the customer already registered
	// with the phone number, or registers a new CREDIT customer. Callers
	// racing on one phone must hold CustomerLockKey until they commit.
	FindOrCreateCreditCustomer(ctx context.Context, input *dto.CreditCustomerInput) (*model.User, error)
}

// CustomerLockKey names the lock serializing credit customer registration
// for a phone number.
func CustomerLockKey(phone string) string {
	return "lock:customer:" + strings.TrimSpace(phone)
}
