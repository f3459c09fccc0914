package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"qaboard/internal/config"
	"qaboard/internal/models"
	"qaboard/internal/store"
	"qaboard/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrUserExists does not say which of username/email collided.
	ErrUserExists = errors.New("user with this username or email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingPassword    = errors.New("password is required")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Claims 会话 token 中携带的用户身份
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService 注册、登录以及 token 的签发与校验
type AuthService struct {
	users  *store.UserStore
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewAuthService(users *store.UserStore, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TTL(),
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

// TTL is the lifetime of issued tokens.
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

// Signup creates the account and returns it with a fresh token.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*models.User, string, error) {
	user := &models.User{Username: username, Email: email, Password: password}
	if err := models.Validate(user); err != nil {
		return nil, "", err
	}

	existing, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrUserExists
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	user.Password = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// 并发注册同名用户，由唯一索引兜底
			return nil, "", ErrUserExists
		}
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login 通过邮箱查找用户并校验密码
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" {
		return nil, "", ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if password == "" {
		return nil, "", ErrMissingPassword
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken signs an HS256 token carrying the user id and username.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   strconv.FormatUint(uint64(user.ID), 10),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ParseToken verifies signature, algorithm, issuer and expiry.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
