package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamtrack/tracker-api/internal/core/domain"
	"github.com/teamtrack/tracker-api/internal/core/ports"
)

// AuthService implements registration and login. Self-registered accounts
// always get the user privilege; promoting to admin or demoting to demo is
// an admin operation on the member itself.
type AuthService struct {
	repo      ports.MemberRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.MemberRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Member, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrMemberNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &domain.Member{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Privilege:    domain.PrivilegeUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Member, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	m, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(m)
	if err != nil {
		return "", nil, err
	}
	return token, m, nil
}

func (s *AuthService) generateToken(m *domain.Member) (string, error) {
	claims := jwt.MapClaims{
		"sub":       m.ID,
		"name":      m.Name,
		"privilege": string(m.Privilege),
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
