package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/briefwise/briefwise/pkg/repository/memory"
	"github.com/briefwise/briefwise/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestUserUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("first access creates user with initial credits", func(t *testing.T) {
		uc := usecase.NewUserUseCase(memory.New(), 5)

		user, err := uc.Get(ctx, "user-1")
		gt.NoError(t, err).Required()
		gt.Value(t, user.Credits).Equal(5)
		gt.Value(t, user.ReportCount).Equal(0)
	})

	t.Run("grant adds credits", func(t *testing.T) {
		uc := usecase.NewUserUseCase(memory.New(), 5)

		user, err := uc.Grant(ctx, "user-1", 7)
		gt.NoError(t, err).Required()
		gt.Value(t, user.Credits).Equal(12)
	})

	t.Run("grant rejects non-positive amount", func(t *testing.T) {
		uc := usecase.NewUserUseCase(memory.New(), 5)

		_, err := uc.Grant(ctx, "user-1", 0)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidAmount)).True()
	})

	t.Run("empty user ID is rejected", func(t *testing.T) {
		uc := usecase.NewUserUseCase(memory.New(), 5)

		_, err := uc.Get(ctx, "")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidUser)).True()
	})
}
