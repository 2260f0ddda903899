package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/internal/repository"
	pkgauth "github.com/clipperline/barbershop-api/pkg/auth"
	apperrors "github.com/clipperline/barbershop-api/pkg/errors"
	"github.com/clipperline/barbershop-api/pkg/security"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	user.IsAdmin = len(f.users) == 0
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.users[user.Username] = user
	return nil
}

func newAuthFixture() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	jwtSvc := pkgauth.NewJWTService("test-secret", time.Hour)
	return NewService(repo, hasher, jwtSvc), repo
}

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	first, err := svc.Register(ctx, &model.RegisterRequest{Username: "owner", Password: "password123"})
	require.NoError(t, err)
	assert.True(t, first.User.IsAdmin)
	assert.NotEmpty(t, first.AccessToken)

	second, err := svc.Register(ctx, &model.RegisterRequest{Username: "helper", Password: "password123"})
	require.NoError(t, err)
	assert.False(t, second.User.IsAdmin)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{Username: "owner", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &model.RegisterRequest{Username: "owner", Password: "password456"})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode())
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{Username: "owner", Password: "password123"})
	require.NoError(t, err)

	token, err := svc.Login(ctx, &model.LoginRequest{Username: "owner", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.NotNil(t, token.User.LastLoginAt)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{Username: "owner", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "owner", Password: "wrong"})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode())

	assert.Equal(t, 1, repo.users["owner"].LoginAttempts)
}

func TestLoginLockout(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{Username: "owner", Password: "password123"})
	require.NoError(t, err)

	for i := 0; i < maxLoginAttempts; i++ {
		_, err = svc.Login(ctx, &model.LoginRequest{Username: "owner", Password: "wrong"})
		require.Error(t, err)
	}

	// Even the right password is refused while locked out.
	_, err = svc.Login(ctx, &model.LoginRequest{Username: "owner", Password: "password123"})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode())
}

func TestLoginLockoutExpires(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{Username: "owner", Password: "password123"})
	require.NoError(t, err)

	for i := 0; i < maxLoginAttempts; i++ {
		_, _ = svc.Login(ctx, &model.LoginRequest{Username: "owner", Password: "wrong"})
	}

	svc.now = func() time.Time { return time.Now().Add(lockoutDuration + time.Minute) }

	token, err := svc.Login(ctx, &model.LoginRequest{Username: "owner", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Login(context.Background(), &model.LoginRequest{Username: "ghost", Password: "password123"})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode())
}
