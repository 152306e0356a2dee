package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
)

type UserService struct {
	Repo *repo.GormRepo
}

type UpdateUserInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Mobile    string `json:"mobile"`
}

func (s *UserService) GetUser(ctx context.Context, actor Actor) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, actor Actor, in UpdateUserInput) (*models.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Mobile = strings.TrimSpace(in.Mobile)
	if in.FirstName == "" || in.LastName == "" || in.Mobile == "" {
		return nil, fmt.Errorf("%w: please enter all fields", ErrValidation)
	}

	taken, err := s.Repo.MobileTaken(ctx, in.Mobile, actor.UserID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: mobile is used by another account", ErrDuplicate)
	}

	user, err := s.Repo.UpdateUser(ctx, actor.UserID, map[string]any{
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"mobile":     in.Mobile,
	})
	if err != nil {
		return nil, duplicate(notFound(err, "user"), "mobile")
	}
	return user, nil
}

func (s *UserService) SaveAddress(ctx context.Context, actor Actor, address string) (*models.User, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrValidation)
	}
	user, err := s.Repo.UpdateUser(ctx, actor.UserID, map[string]any{"address": address})
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor Actor) error {
	return notFound(s.Repo.DeleteUser(ctx, actor.UserID), "user")
}

func (s *UserService) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	return s.Repo.ListUsers(ctx, offset, limit)
}

func (s *UserService) Block(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.setBlocked(ctx, id, true)
}

func (s *UserService) Unblock(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.setBlocked(ctx, id, false)
}

func (s *UserService) setBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if user.IsBlocked == blocked {
		state := "unblocked"
		if blocked {
			state = "blocked"
		}
		return nil, fmt.Errorf("%w: user is already %s", ErrValidation, state)
	}

	user, err = s.Repo.UpdateUser(ctx, id, map[string]any{"is_blocked": blocked})
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *UserService) Wishlist(ctx context.Context, actor Actor) ([]models.Product, error) {
	return s.Repo.ListWishlist(ctx, actor.UserID)
}

// ToggleWishlist reports whether the product is on the wishlist afterwards.
func (s *UserService) ToggleWishlist(ctx context.Context, actor Actor, productID uuid.UUID) (bool, error) {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return false, notFound(err, "product")
	}
	return s.Repo.ToggleWishlist(ctx, actor.UserID, productID)
}
