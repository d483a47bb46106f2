package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Danielsio/SIONYX-sub000/internal/lib/jwt"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/password"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetUserByPhone(ctx context.Context, orgID, phone string) (*models.User, error) {
	args := m.Called(ctx, orgID, phone)
	resp, _ := args.Get(0).(*models.User)
	return resp, args.Error(1)
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	resp, _ := args.Get(0).(*models.User)
	return resp, args.Error(1)
}

func (m *RepoMock) TouchLastSeen(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

func newMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	repo := new(RepoMock)
	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.OrgID == "org1" && u.Phone == "0501234567" && u.Role == "user" &&
			password.CompareHash(u.PasswordHash, "s3cret!") == nil
	})).Return("u1", nil).Once()

	svc := NewAuthService(repo, newMaker())
	uid, err := svc.Register(context.Background(), "org1", "0501234567", "s3cret!", "Dana", "Levi", "dana@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "u1", uid)
	repo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := password.GetHash("s3cret!")
	require.NoError(t, err)
	user := &models.User{UID: "u1", OrgID: "org1", Phone: "0501234567",
		PasswordHash: hashed, Role: "user"}

	t.Run("success returns a parseable token", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByPhone", mock.Anything, "org1", "0501234567").Return(user, nil).Once()
		repo.On("TouchLastSeen", mock.Anything, "u1").Return(nil).Once()

		maker := newMaker()
		svc := NewAuthService(repo, maker)
		token, got, err := svc.Login(context.Background(), "org1", "0501234567", "s3cret!")
		require.NoError(t, err)
		assert.Equal(t, user, got)

		claims, err := maker.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UID)
		assert.Equal(t, "org1", claims.OrgID)
		assert.Equal(t, "user", claims.Role)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByPhone", mock.Anything, "org1", "0501234567").Return(user, nil).Once()

		svc := NewAuthService(repo, newMaker())
		_, _, err := svc.Login(context.Background(), "org1", "0501234567", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		repo.AssertNotCalled(t, "TouchLastSeen", mock.Anything, mock.Anything)
	})

	t.Run("unknown phone looks the same as a wrong password", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByPhone", mock.Anything, "org1", "0509999999").
			Return(nil, assert.AnError).Once()

		svc := NewAuthService(repo, newMaker())
		_, _, err := svc.Login(context.Background(), "org1", "0509999999", "s3cret!")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
