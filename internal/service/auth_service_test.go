package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mesto/internal/auth"
	apperrors "mesto/internal/errors"
	"mesto/internal/events"
	"mesto/internal/model"
	"mesto/internal/repository"
)

const testUserID = "5f8d0d55b54764421b7156c1"

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name         string
		input        RegisterInput
		setupMock    func(*MockUserRepository, *MockPublisher)
		expectedKind apperrors.Kind
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Email: "a@b.com", Password: "secret1", Name: "Jacques"},
			setupMock: func(m *MockUserRepository, p *MockPublisher) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Run(func(args mock.Arguments) { args.Get(1).(*model.User).ID = testUserID }).
					Return(nil)
				p.On("Publish", events.SubjectUserCreated, mock.AnythingOfType("events.Event")).Return()
			},
		},
		{
			name:  "duplicate email",
			input: RegisterInput{Email: "taken@b.com", Password: "secret1"},
			setupMock: func(m *MockUserRepository, p *MockPublisher) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(repository.ErrDuplicateEmail)
			},
			expectedKind: apperrors.KindConflict,
		},
		{
			name:  "store failure",
			input: RegisterInput{Email: "a@b.com", Password: "secret1"},
			setupMock: func(m *MockUserRepository, p *MockPublisher) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(errors.New("connection reset"))
			},
			expectedKind: apperrors.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockPublisher := new(MockPublisher)
			tt.setupMock(mockRepo, mockPublisher)

			service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", 0), new(MockTokenStore), mockPublisher, bcrypt.MinCost)
			user, err := service.Register(context.Background(), tt.input)

			if tt.expectedKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedKind, apperrors.KindOf(err))
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.input.Email, user.Email)
				assert.Equal(t, tt.input.Name, user.Name)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.input.Password)))
			}

			mockRepo.AssertExpectations(t)
			mockPublisher.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: testUserID, Email: "a@b.com", PasswordHash: string(hashedPassword)}

	tests := []struct {
		name      string
		email     string
		password  string
		setupMock func(*MockUserRepository)
		wantKind  apperrors.Kind
	}{
		{
			name:     "successful login",
			email:    "a@b.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@b.com").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			email:    "a@b.com",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@b.com").Return(stored, nil)
			},
			wantKind: apperrors.KindUnauthorized,
		},
		{
			name:     "unknown email",
			email:    "nobody@b.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@b.com").Return(nil, repository.ErrNotFound)
			},
			wantKind: apperrors.KindUnauthorized,
		},
		{
			name:     "store failure",
			email:    "a@b.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@b.com").Return(nil, errors.New("timeout"))
			},
			wantKind: apperrors.KindInternal,
		},
	}

	jwtService := auth.NewJWTService("test-secret", 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, jwtService, new(MockTokenStore), nil, bcrypt.MinCost)
			token, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				claims, err := jwtService.ValidateToken(token)
				require.NoError(t, err)
				assert.Equal(t, testUserID, claims.UserID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "a@b.com").
		Return(&model.User{ID: testUserID, Email: "a@b.com", PasswordHash: string(hashedPassword)}, nil)
	mockRepo.On("FindByEmail", mock.Anything, "nobody@b.com").Return(nil, repository.ErrNotFound)

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", 0), new(MockTokenStore), nil, bcrypt.MinCost)

	_, wrongPassword := service.Login(context.Background(), "a@b.com", "wrong-password")
	_, unknownEmail := service.Login(context.Background(), "nobody@b.com", "secret1")

	s1, b1 := apperrors.MapErrorToHTTP(wrongPassword)
	s2, b2 := apperrors.MapErrorToHTTP(unknownEmail)
	assert.Equal(t, s1, s2)
	assert.Equal(t, b1, b2)
	assert.Equal(t, "invalid email or password", b1.Message)
}

func TestAuthService_Logout(t *testing.T) {
	mockStore := new(MockTokenStore)
	mockStore.On("Revoke", mock.Anything, "token-id", mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 59*time.Minute && ttl <= time.Hour
	})).Return(nil)

	service := NewAuthService(new(MockUserRepository), auth.NewJWTService("test-secret", 0), mockStore, nil, bcrypt.MinCost)
	claims := &auth.Claims{UserID: testUserID, RegisteredClaims: jwt.RegisteredClaims{
		ID:        "token-id",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}

	require.NoError(t, service.Logout(context.Background(), claims))
	mockStore.AssertExpectations(t)

	err := service.Logout(context.Background(), nil)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}
