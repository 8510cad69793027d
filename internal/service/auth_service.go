package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/pkg/bcrypt"
	"github.com/meritrix/meritrix-backend/pkg/captcha"
	"github.com/meritrix/meritrix-backend/pkg/email"
	jwtPkg "github.com/meritrix/meritrix-backend/pkg/jwt"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *jwtPkg.Manager
	captcha  captcha.Verifier
	mailer   email.Mailer
	logger   *zap.Logger
}

func NewAuthService(
	userRepo *repository.UserRepository,
	tokens *jwtPkg.Manager,
	verifier captcha.Verifier,
	mailer email.Mailer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		captcha:  verifier,
		mailer:   mailer,
		logger:   logger.Named("auth"),
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest, remoteIP string) (*models.AuthResponse, error) {
	ok, err := s.captcha.Verify(ctx, req.CaptchaToken, remoteIP)
	if err != nil {
		s.logger.Warn("captcha verification error", zap.Error(err))
		return nil, ErrCaptchaFailed
	}
	if !ok {
		return nil, ErrCaptchaFailed
	}

	if n := len(req.Password); n < 8 || n > 128 {
		return nil, fmt.Errorf("%w: password must be 8-128 characters", ErrInvalidInput)
	}
	kind, identifier := utils.NormalizeIdentifier(req.Identifier)
	if kind == utils.IdentifierInvalid || len(identifier) < 3 || len(identifier) > 100 {
		return nil, fmt.Errorf("%w: enter a valid email or phone number", ErrInvalidInput)
	}

	exists, err := s.userRepo.ExistsByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrIdentifierTaken
	}

	hashed, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = identifier
	}
	user := &models.User{
		Name:     name,
		Email:    identifier,
		Password: hashed,
		Role:     models.RoleStudent,
	}
	if kind == utils.IdentifierPhone {
		phone := identifier
		user.Phone = &phone
		user.Email = utils.PlaceholderEmail(phone)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrIdentifierTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	if kind == utils.IdentifierEmail {
		go s.sendWelcome(user.Email, user.Name)
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *AuthService) sendWelcome(to, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.mailer.SendWelcome(ctx, to, name); err != nil {
		s.logger.Error("failed to send welcome email", zap.Error(err))
	}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	kind, identifier := utils.NormalizeIdentifier(req.Identifier)
	if kind == utils.IdentifierInvalid || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, ErrUserBlocked
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	return user, err
}

// Authenticate token'ı doğrular; kullanıcı silinmiş veya engellenmişse reddeder
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if user.IsBlocked {
		return nil, ErrUserBlocked
	}
	return user, nil
}
