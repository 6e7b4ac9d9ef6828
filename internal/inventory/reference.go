package inventory

import "context"

const (
	RefOrder    = "order"
	RefRestock  = "restock"
	RefDelivery = "delivery"
	RefManual   = "manual"
	RefProduct  = "product"
)

type referenceKey struct{}

type reference struct {
	Type string
	ID   string
}

// WithReference tags every stock movement logged under ctx with the
// originating document.
func WithReference(ctx context.Context, refType, refID string) context.Context {
	return context.WithValue(ctx, referenceKey{}, reference{Type: refType, ID: refID})
}

// ReferenceFrom returns the reference set by WithReference, or nils.
func ReferenceFrom(ctx context.Context) (refType, refID *string) {
	ref, ok := ctx.Value(referenceKey{}).(reference)
	if !ok {
		return nil, nil
	}
	t, id := ref.Type, ref.ID
	return &t, &id
}

// LockKey names the lock guarding a product's batch set.
func LockKey(productID string) string {
	return "lock:batches:" + productID
}
