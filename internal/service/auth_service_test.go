package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eduphysics/internal/auth"
	apperrors "eduphysics/internal/errors"
	"eduphysics/internal/model"
)

// MockAdminRepository is a mock implementation of AdminRepository.
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID, username string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, username, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockAdminRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "admin",
			password: "admin123",
			setupMock: func(mRepo *MockAdminRepository, mToken *MockTokenStore) {
				hashed, _ := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
				mRepo.On("FindByUsername", mock.Anything, "admin").Return(&model.Admin{
					Username:     "admin",
					PasswordHash: string(hashed),
				}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, "admin", mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown username",
			username: "ghost",
			password: "admin123",
			setupMock: func(mRepo *MockAdminRepository, mToken *MockTokenStore) {
				mRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "admin",
			password: "nope",
			setupMock: func(mRepo *MockAdminRepository, mToken *MockTokenStore) {
				hashed, _ := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
				mRepo.On("FindByUsername", mock.Anything, "admin").Return(&model.Admin{
					Username:     "admin",
					PasswordHash: string(hashed),
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAdminRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), mockTokenStore)
			accessToken, refreshToken, admin, err := service.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, admin)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.Equal(t, tt.username, admin.Username)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_TrimsUsername(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
	mockRepo := new(MockAdminRepository)
	mockRepo.On("FindByUsername", mock.Anything, "admin").Return(&model.Admin{
		Username:     "admin",
		PasswordHash: string(hashed),
	}, nil)
	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, "admin", mock.Anything).Return(nil)

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), mockTokenStore)
	_, _, admin, err := service.Login(context.Background(), "  admin  ", "admin123")

	assert.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
}

func TestAuthService_EnsureDefaultAdmin(t *testing.T) {
	t.Run("seeds when no admin exists", func(t *testing.T) {
		mockRepo := new(MockAdminRepository)
		mockRepo.On("Count", mock.Anything).Return(int64(0), nil)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Admin) bool {
			if a.Username != "admin" || a.PasswordHash == "" {
				return false
			}
			// The stored credential must be a hash, never the plaintext.
			return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("admin123")) == nil
		})).Return(nil)

		service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
		err := service.EnsureDefaultAdmin(context.Background(), "admin", "admin123")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("no-op when an admin already exists", func(t *testing.T) {
		mockRepo := new(MockAdminRepository)
		mockRepo.On("Count", mock.Anything).Return(int64(1), nil)

		service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
		err := service.EnsureDefaultAdmin(context.Background(), "admin", "admin123")

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")

	t.Run("valid refresh token yields a new access token", func(t *testing.T) {
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken("admin")
		assert.NoError(t, err)

		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return("admin", nil)

		service := NewAuthService(new(MockAdminRepository), jwtService, mockTokenStore)
		accessToken, err := service.RefreshToken(context.Background(), refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		service := NewAuthService(new(MockAdminRepository), jwtService, new(MockTokenStore))
		_, err := service.RefreshToken(context.Background(), "garbage")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("token missing from the store is rejected", func(t *testing.T) {
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken("admin")
		assert.NoError(t, err)

		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return("", assert.AnError)

		service := NewAuthService(new(MockAdminRepository), jwtService, mockTokenStore)
		_, err = service.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}
