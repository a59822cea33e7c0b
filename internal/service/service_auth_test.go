package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/mailguest/flatnotes/internal/config"
	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/mock"
	"github.com/mailguest/flatnotes/internal/store"
	"github.com/mailguest/flatnotes/models"
)

func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (AuthService, *mock.MockUserRepository) {
	t.Helper()
	users := mock.NewMockUserRepository(ctrl)
	cfg := config.ServerAuth{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "flatnotes-test",
		TokenDuration: time.Hour,
	}
	return NewAuthService(users, cfg, logger.Nop()), users
}

// ── RegisterUser ────────────────────────────────────────────────────────────

func TestAuthServiceRegisterUser(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc, users := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	users.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			assert.Empty(t, u.Password, "plaintext must not reach the repository")
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret-pass")))
			u.UserID = 7
			return u, nil
		},
	)

	registered, err := svc.RegisterUser(ctx, models.User{Login: "alice", Password: "secret-pass"})

	require.NoError(t, err)
	assert.EqualValues(t, 7, registered.UserID)
}

func TestAuthServiceRegisterUserEmptyCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.RegisterUser(context.Background(), models.User{Login: "alice"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.RegisterUser(context.Background(), models.User{Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthServiceRegisterUserLoginTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users := newTestAuthSvc(t, ctrl)

	users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserExists)

	_, err := svc.RegisterUser(context.Background(), models.User{Login: "alice", Password: "x"})
	assert.ErrorIs(t, err, store.ErrUserExists)
}

// ── Login ───────────────────────────────────────────────────────────────────

func TestAuthServiceLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users := newTestAuthSvc(t, ctrl)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := models.User{UserID: 7, Login: "alice", PasswordHash: string(hash)}

	users.EXPECT().GetByLogin(gomock.Any(), "alice").Return(stored, nil).Times(2)

	authenticated, err := svc.Login(context.Background(), models.User{Login: "alice", Password: "secret-pass"})
	require.NoError(t, err)
	assert.EqualValues(t, 7, authenticated.UserID)

	_, err = svc.Login(context.Background(), models.User{Login: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users := newTestAuthSvc(t, ctrl)

	users.EXPECT().GetByLogin(gomock.Any(), "ghost").Return(models.User{}, store.ErrUserNotFound)

	_, err := svc.Login(context.Background(), models.User{Login: "ghost", Password: "x"})
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

// ── Tokens ──────────────────────────────────────────────────────────────────

func TestAuthServiceTokenRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	token, err := svc.CreateToken(ctx, models.User{UserID: 42, Login: "alice"})
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.EqualValues(t, 42, parsed.UserID)
}

func TestAuthServiceParseTokenRejectsForeignToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	otherCfg := config.ServerAuth{
		TokenSignKey:  "other-sign-key",
		TokenIssuer:   "flatnotes-test",
		TokenDuration: time.Hour,
	}
	other := NewAuthService(mock.NewMockUserRepository(ctrl), otherCfg, logger.Nop())

	token, err := other.CreateToken(ctx, models.User{UserID: 1})
	require.NoError(t, err)

	_, err = svc.ParseToken(ctx, token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthServiceParseTokenGarbage(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.ParseToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
