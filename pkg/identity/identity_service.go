// Package identity is the identity provider client: email and password
// accounts with session tokens.
package identity

import (
	"Snack-Tracker/domain"
	"Snack-Tracker/entities"
	"Snack-Tracker/pkg/jwt"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	Provider interface {
		SignUp(ctx context.Context, email, password string) (domain.Session, error)
		SignIn(ctx context.Context, email, password string) (domain.Session, error)
		// SignOut revokes every token issued to the token's user so far.
		SignOut(ctx context.Context, token string) error
		// Current resolves a session token to its user id.
		Current(ctx context.Context, token string) (string, error)
	}

	identityService struct {
		repo IdentityRepository
		jwt  jwt.JWTService
		now  func() time.Time
	}
)

func NewIdentityService(repo IdentityRepository, jwtService jwt.JWTService) Provider {
	return &identityService{
		repo: repo,
		jwt:  jwtService,
		now:  time.Now,
	}
}

func (s *identityService) SignUp(ctx context.Context, email, password string) (domain.Session, error) {
	email = normalizeEmail(email)

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return domain.Session{}, domain.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Session{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Session{}, err
	}

	user := &entities.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Session{}, domain.ErrEmailTaken
		}
		return domain.Session{}, err
	}

	return s.session(user)
}

func (s *identityService) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Session{}, domain.ErrInvalidCredentials
		}
		return domain.Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	return s.session(user)
}

func (s *identityService) SignOut(ctx context.Context, token string) error {
	userID, _, err := s.jwt.ParseSession(token)
	if err != nil {
		return err
	}
	return s.repo.MarkSignedOut(ctx, userID, s.now())
}

func (s *identityService) Current(ctx context.Context, token string) (string, error) {
	userID, issued, err := s.jwt.ParseSession(token)
	if err != nil {
		return "", err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}
	// JWT iat has second precision.
	if user.SignedOutAt != nil && !issued.After(user.SignedOutAt.Truncate(time.Second)) {
		return "", domain.ErrTokenInvalid
	}
	return user.ID.String(), nil
}

func (s *identityService) session(user *entities.User) (domain.Session, error) {
	token, err := s.jwt.GenerateSessionToken(user.ID.String())
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		UserID: user.ID.String(),
		Email:  user.Email,
		Token:  token,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
