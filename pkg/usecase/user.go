package usecase

import (
	"context"

	"github.com/briefwise/briefwise/pkg/domain/interfaces"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type UserUseCase struct {
	repo           interfaces.Repository
	initialCredits int
}

func NewUserUseCase(repo interfaces.Repository, initialCredits int) *UserUseCase {
	return &UserUseCase{
		repo:           repo,
		initialCredits: initialCredits,
	}
}

// Get returns the user's ledger, creating it with the initial credits on first access
func (uc *UserUseCase) Get(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, goerr.Wrap(ErrInvalidUser, "failed to get user")
	}

	user, err := uc.repo.User().GetOrCreate(ctx, userID, uc.initialCredits)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, userID))
	}
	return user, nil
}

// Grant adds credits to the user
func (uc *UserUseCase) Grant(ctx context.Context, userID string, amount int) (*model.User, error) {
	if amount <= 0 {
		return nil, goerr.Wrap(ErrInvalidAmount, "failed to grant credits",
			goerr.V(model.UserIDKey, userID),
			goerr.V("amount", amount))
	}

	if _, err := uc.Get(ctx, userID); err != nil {
		return nil, err
	}

	user, err := uc.repo.User().AddCredits(ctx, userID, amount)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to add credits",
			goerr.V(model.UserIDKey, userID),
			goerr.V("amount", amount))
	}
	return user, nil
}
