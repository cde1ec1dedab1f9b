package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/auth"
	"github.com/influmatch/backend/internal/config"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/repositories"
)

type AuthService struct {
	userRepo *repositories.UserRepo
	cfg      *config.Config
	log      *zap.Logger
}

func NewAuthService(userRepo *repositories.UserRepo, cfg *config.Config, log *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg, log: log}
}

func (s *AuthService) Signup(ctx context.Context, email, password, displayName, role string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", apperr.Validation("올바른 이메일을 입력해주세요.")
	}
	if len(password) < 8 {
		return nil, "", apperr.Validation("비밀번호는 8자 이상이어야 합니다.")
	}
	if displayName == "" {
		return nil, "", apperr.Validation("이름을 입력해주세요.")
	}
	if role != models.RoleAdvertiser && role != models.RoleInfluencer {
		return nil, "", apperr.Validation("역할은 advertiser 또는 influencer 여야 합니다.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, "", apperr.Validation("이미 사용 중인 이메일입니다. 로그인을 시도해보세요.")
		}
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("user signed up", zap.String("user_id", user.ID.String()), zap.String("role", role))
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", apperr.Unauthorized("이메일 또는 비밀번호가 올바르지 않습니다.")
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", apperr.Unauthorized("이메일 또는 비밀번호가 올바르지 않습니다.")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, id uuid.UUID, displayName string, profile models.UserProfile) (*models.User, error) {
	if displayName == "" {
		return nil, apperr.Validation("이름을 입력해주세요.")
	}
	if err := s.userRepo.UpdateProfile(ctx, id, displayName, profile); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	return auth.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Role, s.cfg.JWTExpiration)
}
