package interfaces

import (
	"context"

	"github.com/briefwise/briefwise/pkg/domain/model"
)

// UserRepository defines the interface for the credits ledger
type UserRepository interface {
	// GetOrCreate retrieves a user, creating it with initialCredits on first access
	GetOrCreate(ctx context.Context, id string, initialCredits int) (*model.User, error)

	// AddCredits adds amount to the user's credits. Returns model.ErrNotFound for unknown users.
	AddCredits(ctx context.Context, id string, amount int) (*model.User, error)
}
