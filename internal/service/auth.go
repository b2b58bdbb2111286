package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/hash"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/logging"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/mail"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/models"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/permission"
	"github.com/gabrielcmoraru/react-shop-advanced/internal/repository"
)

const (
	resetTokenBytes = 20
	resetTokenTTL   = time.Hour
)

type AuthService struct {
	Users       UserStore
	Mailer      mail.Mailer
	FrontendURL string

	// Now is swappable for expiry tests.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Signup registers a user with the default USER tag. Emails are normalized
// to lowercase so lookups are case-insensitive.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("name, email and password are required: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Permissions:  permission.Set{permission.User},
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("email %s is taken: %w", email, ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

// Signin answers with the same ErrInvalidCredentials for an unknown email
// and a wrong password, so the response never reveals which one it was.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// RequestReset stores a single active reset token on the user and mails a
// reset link; a token stays valid for one hour.
func (s *AuthService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no user for email %s: %w", email, ErrNotFound)
		}
		return err
	}

	token, err := hash.RandomHexToken(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expiry := s.now().Add(resetTokenTTL)
	if err := s.Users.SaveResetToken(ctx, user.ID, token, expiry); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset?resetToken=%s", s.FrontendURL, token)
	body := mail.NiceEmail(fmt.Sprintf(`Your password reset link is here!<br/><a href=%q>Click here to reset</a>`, link))
	if err := s.Mailer.Send(user.Email, "Your password reset link", body); err != nil {
		logging.FromContext(ctx).Error("reset mail failed", "user_id", user.ID, "error", err)
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ResetPassword redeems a reset token. The token must match and be
// unexpired; redemption clears the token fields.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string) (*models.User, error) {
	if password == "" || password != confirm {
		return nil, fmt.Errorf("passwords don't match: %w", ErrValidation)
	}
	if token == "" {
		return nil, fmt.Errorf("reset token is invalid or expired: %w", ErrValidation)
	}

	user, err := s.Users.FindUserByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("reset token is invalid or expired: %w", ErrValidation)
		}
		return nil, err
	}
	if user.ResetTokenExpiry == nil || s.now().After(*user.ResetTokenExpiry) {
		return nil, fmt.Errorf("reset token is invalid or expired: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.UpdatePassword(ctx, user.ID, pwHash); err != nil {
		return nil, err
	}

	user.PasswordHash = pwHash
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	return user, nil
}
