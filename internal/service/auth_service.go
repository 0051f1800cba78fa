package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mesto/internal/auth"
	apperrors "mesto/internal/errors"
	"mesto/internal/events"
	"mesto/internal/model"
	"mesto/internal/repository"
)

const (
	msgInvalidCredentials = "invalid email or password"
	msgDuplicateEmail     = "user with this email already exists"
)

// RegisterInput carries the signup fields.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	About    string
	Avatar   string
}

// AuthService handles signup, signin and signout.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, err error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	publisher  events.Publisher
	bcryptCost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	publisher events.Publisher,
	bcryptCost int,
) AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		publisher:  publisher,
		bcryptCost: bcryptCost,
	}
}

// Register hashes the password and stores a new user. Email uniqueness is
// enforced by the store.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.BadRequest("password is too long")
		}
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		About:        in.About,
		Avatar:       in.Avatar,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Wrap(err, apperrors.KindConflict, msgDuplicateEmail)
		}
		return nil, apperrors.Internal(err)
	}

	s.publisher.Publish(events.SubjectUserCreated, events.Event{UserID: user.ID, ActorID: user.ID})
	return user, nil
}

// Login verifies credentials and issues a token. An unknown email and a wrong
// password produce the same error.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.Internal(err)
		}
		// Burn a comparison so unknown emails cost as much as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return "", apperrors.Unauthorized(msgInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.Unauthorized(msgInvalidCredentials)
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return token, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return apperrors.Unauthorized("authorization required")
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.tokenStore.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *authService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("mesto-dummy-password"), s.bcryptCost)
	})
	return s.dummyHash
}
