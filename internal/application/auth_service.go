package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/careerbridge/careerbridge-api/internal/domain"
	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
	repo "github.com/careerbridge/careerbridge-api/internal/domain/repository"
	"github.com/careerbridge/careerbridge-api/pkg/helpers"
)

const sessionTTL = 24 * time.Hour

// AuthService signs platform admins in. The admin core assumes a verified
// admin caller; this is where that assumption is established.
type AuthService struct {
	Accounts repo.AccountRepository
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Logger   *logrus.Logger
}

func NewAuthService(accounts repo.AccountRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *AuthService {
	return &AuthService{Accounts: accounts, JWT: jwt, Redis: rdb, Logger: logger}
}

// TokenPair carries issued access/refresh tokens with their expiries.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(accountID string) string {
	return "user:session:" + accountID
}

// Login authenticates an ADMIN account and records a session in Redis.
// Non-admin accounts are rejected; the admin surface is the only surface here.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.Account, TokenPair, error) {
	acct, err := s.Accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, domain.ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(acct.Password, password) {
		return nil, TokenPair{}, domain.ErrInvalidCredentials
	}
	if !acct.IsActive {
		return nil, TokenPair{}, domain.ErrAccountSuspended
	}
	if acct.Role != entity.RoleAdmin {
		return nil, TokenPair{}, domain.ErrNotAdmin
	}

	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(acct.ID, string(acct.Role), sid)
	if err != nil {
		return nil, TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(acct.ID, string(acct.Role), sid)
	if err != nil {
		return nil, TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(acct.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    acct.ID,
			"email":      acct.Email,
			"name":       acct.Name,
			"role":       string(acct.Role),
			"sid":        sid,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("redis session write failed")
		}
	}

	return acct, TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the token pair from a valid refresh token. The Redis
// session must still exist and carry the same sid, so logging out invalidates
// outstanding refresh tokens immediately.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, domain.ErrInvalidCredentials
	}

	if s.Redis != nil {
		sid, err := s.Redis.HGet(ctx, sessionKey(claims.UserID), "sid").Result()
		if err != nil || sid != claims.SessionID {
			return TokenPair{}, domain.ErrInvalidCredentials
		}
	}

	access, aexp, err := s.JWT.GenerateAccessToken(claims.UserID, claims.Role, claims.SessionID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(claims.UserID, claims.Role, claims.SessionID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Logout drops the Redis session; the cookies are cleared by the handler.
func (s *AuthService) Logout(ctx context.Context, accountID string) {
	if s.Redis == nil || accountID == "" {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, sessionKey(accountID)); err != nil && !errors.Is(err, redis.Nil) {
		s.Logger.WithError(err).WithField("account_id", accountID).Warn("redis session delete failed")
	}
}
