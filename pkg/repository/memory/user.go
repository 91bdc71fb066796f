package memory

import (
	"context"
	"sync"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type userRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[string]*model.User),
	}
}

func copyUser(u *model.User) *model.User {
	copied := *u
	return &copied
}

func (r *userRepository) GetOrCreate(ctx context.Context, id string, initialCredits int) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, exists := r.users[id]; exists {
		return copyUser(u), nil
	}

	now := time.Now().UTC()
	u := &model.User{
		ID:        id,
		Credits:   initialCredits,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.users[id] = u
	return copyUser(u), nil
}

func (r *userRepository) AddCredits(ctx context.Context, id string, amount int) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, exists := r.users[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V(model.UserIDKey, id))
	}

	u.Credits += amount
	u.UpdatedAt = time.Now().UTC()
	return copyUser(u), nil
}
