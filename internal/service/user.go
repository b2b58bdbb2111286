package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/models"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/permission"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/repository"
)

type UserService struct {
	Users  UserStore
	Orders OrderStore
}

// requirePermission is the permission gate: the user's set must intersect
// the required set.
func requirePermission(user *models.User, required ...permission.Permission) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if !user.Permissions.HasAny(required...) {
		return fmt.Errorf("need one of %v: %w", required, ErrForbidden)
	}
	return nil
}

func (s *UserService) Me(ctx context.Context, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	user, err := s.Users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// Users lists every account. Gated on ADMIN or PERMISSIONUPDATE.
func (s *UserService) ListUsers(ctx context.Context, current *models.User) ([]models.User, error) {
	if err := requirePermission(current, permission.Admin, permission.PermissionUpdate); err != nil {
		return nil, err
	}
	return s.Users.ListUsers(ctx)
}

// UpdatePermissions replaces a user's permission set. Gated on ADMIN or
// PERMISSIONUPDATE; tags outside the closed enum are rejected.
func (s *UserService) UpdatePermissions(ctx context.Context, current *models.User, targetID uint, tags []string) (*models.User, error) {
	if err := requirePermission(current, permission.Admin, permission.PermissionUpdate); err != nil {
		return nil, err
	}

	perms := make(permission.Set, 0, len(tags))
	for _, tag := range tags {
		p, err := permission.Parse(tag)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrValidation)
		}
		perms = append(perms, p)
	}

	user, err := s.Users.UpdateUserPermissions(ctx, targetID, perms)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", targetID, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// GetOrder returns an order to its owner, or to an ADMIN viewing another
// user's order.
func (s *UserService) GetOrder(ctx context.Context, current *models.User, orderID uint) (*models.Order, error) {
	if current == nil {
		return nil, ErrUnauthenticated
	}

	order, err := s.Orders.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	if order.UserID != current.ID && !current.Permissions.Has(permission.Admin) {
		return nil, fmt.Errorf("order %d belongs to another user: %w", orderID, ErrForbidden)
	}
	return order, nil
}

func (s *UserService) MyOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	return s.Orders.ListOrdersByUser(ctx, userID)
}
