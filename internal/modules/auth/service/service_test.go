package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/modules/auth/dto"
	"quezon.gov.ph/portal/internal/session"
	"quezon.gov.ph/portal/pkg/apperror"
	"quezon.gov.ph/portal/pkg/baas"
)

type fakeProvider struct {
	userID     string
	signInErr  error
	resetErr   error
	redirectTo string
	signedOut  []string
	noService  bool
}

func (f *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (*baas.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &baas.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    3600,
		ExpiresAt:    time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC).Unix(),
		User:         baas.User{ID: f.userID, Email: email},
	}, nil
}

func (f *fakeProvider) RefreshSession(ctx context.Context, refreshToken string) (*baas.Session, error) {
	if refreshToken != "refresh" {
		return nil, &baas.Error{Status: http.StatusBadRequest, Code: "invalid_grant", Message: "Invalid Refresh Token"}
	}
	return f.SignInWithPassword(ctx, "", "")
}

func (f *fakeProvider) SignOut(ctx context.Context, accessToken string) error {
	f.signedOut = append(f.signedOut, accessToken)
	return &baas.Error{Status: http.StatusInternalServerError, Message: "boom"}
}

func (f *fakeProvider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	f.redirectTo = redirectTo
	return f.resetErr
}

func (f *fakeProvider) AdminListUsers(ctx context.Context, page, perPage int) ([]baas.User, error) {
	if f.noService {
		return nil, baas.ErrNoServiceKey
	}
	return []baas.User{{ID: f.userID}}, nil
}

type fixedRoles []entity.AppRole

func (r fixedRoles) RolesOf(ctx context.Context, id uuid.UUID) ([]entity.AppRole, error) {
	return r, nil
}

func TestLoginCarriesRoles(t *testing.T) {
	id := uuid.New()
	svc := NewAuthService(&fakeProvider{userID: id.String()}, fixedRoles{entity.RoleBAC}, "https://quezon.example/")

	res, err := svc.Login(context.Background(), dto.LoginInput{Email: gofakeit.Email(), Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, id, res.User.ID)
	assert.Equal(t, []entity.AppRole{entity.RoleBAC}, res.Roles)
	assert.True(t, res.CanAccessAdmin)
	assert.Equal(t, 2026, res.ExpiresAt.Year())
}

func TestLoginErrors(t *testing.T) {
	p := &fakeProvider{userID: uuid.NewString()}
	svc := NewAuthService(p, fixedRoles{}, "")

	p.signInErr = &baas.Error{Status: http.StatusBadRequest, Code: "invalid_grant", Message: "Invalid login credentials"}
	_, err := svc.Login(context.Background(), dto.LoginInput{Email: "a@b.ph", Password: "x"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, apperror.MapErrorToStatus(err))

	p.signInErr = &baas.Error{Status: http.StatusTooManyRequests, Message: "rate limit exceeded"}
	_, err = svc.Login(context.Background(), dto.LoginInput{Email: "a@b.ph", Password: "x"})
	assert.Equal(t, http.StatusTooManyRequests, apperror.MapErrorToStatus(err))

	_, err = svc.Refresh(context.Background(), "stale")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestSessionAndLogout(t *testing.T) {
	p := &fakeProvider{}
	svc := NewAuthService(p, fixedRoles{entity.RoleUser}, "")
	s := &session.Session{UserID: uuid.New(), Email: "clerk@quezon.gov.ph", AccessToken: "tok"}

	res, err := svc.Session(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, res.CanAccessAdmin)
	assert.Equal(t, []entity.AppRole{entity.RoleUser}, res.Roles)

	// upstream failure does not fail sign-out
	require.NoError(t, svc.Logout(context.Background(), s))
	assert.Equal(t, []string{"tok"}, p.signedOut)
}

func TestPasswordReset(t *testing.T) {
	p := &fakeProvider{}
	svc := NewAuthService(p, fixedRoles{}, "https://quezon.example/")

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@quezon.gov.ph"))
	assert.Equal(t, "https://quezon.example/auth?mode=reset", p.redirectTo)

	p.resetErr = &baas.Error{Status: http.StatusNotFound, Message: "user not found"}
	assert.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@quezon.gov.ph"))

	p.resetErr = &baas.Error{Status: http.StatusTooManyRequests, Message: "email rate limit exceeded"}
	assert.ErrorIs(t, svc.RequestPasswordReset(context.Background(), "nobody@quezon.gov.ph"), apperror.ErrRateLimitExceeded)
}

func TestListUsersNeedsServiceKey(t *testing.T) {
	svc := NewAuthService(&fakeProvider{noService: true}, fixedRoles{}, "")
	_, err := svc.ListUsers(context.Background(), 1, 50)
	assert.ErrorIs(t, err, apperror.ErrServiceUnavailable)
}
