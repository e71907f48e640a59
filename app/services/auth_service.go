package services

import (
	"context"
	"strconv"
	"time"

	"github.com/Rakhulsr/go-shop/app/helpers"
	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type LoginInput struct {
	Username string `json:"username" mapstructure:"username" validate:"required"`
	Password string `json:"password" mapstructure:"password" validate:"required"`
}

type AuthService struct {
	users  repositories.UserRepositoryImpl
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users repositories.UserRepositoryImpl, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Login checks the credentials of an active account and records the login.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	if user == nil || !user.IsActive || !helpers.PasswordCompare(user.Password, in.Password) {
		zap.S().Infow("login rejected", "username", in.Username)
		return nil, ErrBadCredential
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, errors.Wrap(err, "update last login")
	}
	user.LastLogin = &now
	return user, nil
}

// IssueToken signs an HS256 token whose subject is the user id.
func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is not configured")
	}
	now := s.now()
	expires := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return signed, expires, nil
}

func (s *AuthService) ParseToken(raw string) (uint, error) {
	if len(s.secret) == 0 {
		return 0, ErrInvalidToken
	}
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// Caller loads the account behind an authenticated session or token. Unknown
// and inactive accounts yield nil.
func (s *AuthService) Caller(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "load caller")
	}
	if user == nil || !user.IsActive {
		return nil, nil
	}
	return user, nil
}
