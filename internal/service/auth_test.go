package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielcmoraru/react-shop-advanced/internal/permission"
)

type stubMailer struct {
	to      string
	subject string
	body    string
	sent    int
}

func (m *stubMailer) Send(to, subject, html string) error {
	m.to = to
	m.subject = subject
	m.body = html
	m.sent++
	return nil
}

func newAuthService(users UserStore) (*AuthService, *stubMailer) {
	mailer := &stubMailer{}
	return &AuthService{
		Users:       users,
		Mailer:      mailer,
		FrontendURL: "http://localhost:7777",
	}, mailer
}

func TestSignup_NormalizesEmailAndAssignsUserTag(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	svc, _ := newAuthService(repo)

	user, err := svc.Signup(context.Background(), "Bob", "Bob@Example.COM", "Secret123")
	require.NoError(t, err)

	assert.Equal(t, "bob@example.com", user.Email)
	assert.Equal(t, permission.Set{permission.User}, user.Permissions)
	assert.NotEqual(t, "Secret123", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	svc, _ := newAuthService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Bob", "bob@example.com", "Secret123")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Other Bob", "BOB@example.com", "Hunter2!")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSignup_Validation(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	svc, _ := newAuthService(repo)
	ctx := context.Background()

	tests := []struct {
		name, userName, email, password string
	}{
		{name: "empty name", email: "a@b.com", password: "x"},
		{name: "empty email", userName: "Bob", password: "x"},
		{name: "empty password", userName: "Bob", email: "a@b.com"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSignin_UniformInvalidCredentials(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	svc, _ := newAuthService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Bob", "bob@example.com", "Secret123")
	require.NoError(t, err)

	// unknown email and wrong password must be indistinguishable
	_, errUnknown := svc.Signin(ctx, "nobody@example.com", "Secret123")
	_, errWrongPw := svc.Signin(ctx, "bob@example.com", "WrongPass")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestSignin_CaseInsensitiveEmail(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	svc, _ := newAuthService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Bob", "bob@example.com", "Secret123")
	require.NoError(t, err)

	user, err := svc.Signin(ctx, "BOB@Example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", user.Email)
}

func TestRequestReset_StoresTokenAndMailsLink(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	svc, mailer := newAuthService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Bob", "bob@example.com", "Secret123")
	require.NoError(t, err)

	require.NoError(t, svc.RequestReset(ctx, "bob@example.com"))

	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "bob@example.com", mailer.to)

	stored, err := repo.FindUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	// 20 random bytes, hex encoded
	assert.Len(t, stored.ResetToken, 40)
	require.NotNil(t, stored.ResetTokenExpiry)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *stored.ResetTokenExpiry, time.Minute)
	assert.Contains(t, mailer.body, stored.ResetToken)
}

func TestRequestReset_UnknownEmail(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	svc, mailer := newAuthService(repo)

	err := svc.RequestReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, mailer.sent)
}

func TestResetPassword_HappyPath(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	svc, _ := newAuthService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Bob", "bob@example.com", "Secret123")
	require.NoError(t, err)
	require.NoError(t, svc.RequestReset(ctx, "bob@example.com"))

	stored, err := repo.FindUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)

	user, err := svc.ResetPassword(ctx, stored.ResetToken, "NewSecret9", "NewSecret9")
	require.NoError(t, err)
	assert.Empty(t, user.ResetToken)
	assert.Nil(t, user.ResetTokenExpiry)

	// old password gone, new one works, token single-use
	_, err = svc.Signin(ctx, "bob@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Signin(ctx, "bob@example.com", "NewSecret9")
	require.NoError(t, err)
	_, err = svc.ResetPassword(ctx, stored.ResetToken, "Another1", "Another1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResetPassword_MismatchedConfirmation(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	svc, _ := newAuthService(repo)

	_, err := svc.ResetPassword(context.Background(), "whatever", "one", "two")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	svc, _ := newAuthService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Bob", "bob@example.com", "Secret123")
	require.NoError(t, err)
	require.NoError(t, svc.RequestReset(ctx, "bob@example.com"))

	stored, err := repo.FindUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)

	// jump the clock past the 1 hour window
	svc.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.ResetPassword(ctx, stored.ResetToken, "NewSecret9", "NewSecret9")
	assert.ErrorIs(t, err, ErrValidation)
}
