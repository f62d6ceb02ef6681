package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/pkg/apperrors"
	"github.com/thereayou/voxus/pkg/auth"
)

type RegisterRequest struct {
	FirstName string
	LastName  string
	Nick      string
	Email     string
	Password  string
}

type AuthResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"tokenExpiresAt"`
}

// AuthService issues and revokes session tokens.
type AuthService struct {
	store      Store
	jwtManager *auth.JWTManager
	redis      *redis.Client
}

func NewAuthService(store Store, jwtManager *auth.JWTManager, rdb *redis.Client) *AuthService {
	return &AuthService{store: store, jwtManager: jwtManager, redis: rdb}
}

func (a *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Nick:         strings.TrimSpace(req.Nick),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Status:       models.UserStatusActive,
	}
	if err := a.store.SaveUser(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Validation("nick or email is already taken")
		}
		return nil, apperrors.Internal(err)
	}
	return a.issue(user)
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := a.store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, apperrors.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	return a.issue(user)
}

// Logout blacklists the token until it expires.
func (a *AuthService) Logout(ctx context.Context, token string) error {
	exp, err := a.jwtManager.Expiry(token)
	if err != nil {
		return apperrors.Unauthorized("invalid token")
	}
	if err := a.redis.Set(ctx, auth.BlacklistKey(token), 1, time.Until(exp)).Err(); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (a *AuthService) issue(user *models.User) (*AuthResponse, error) {
	token, exp, err := a.jwtManager.Generate(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &AuthResponse{User: user, Token: token, ExpiresAt: exp}, nil
}
