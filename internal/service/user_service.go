package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/pkg/bcrypt"
	"go.uber.org/zap"
)

// Admin kullanıcı listesinde en fazla bu kadar kayıt döner
const userSearchLimit = 100

type UserService struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger.Named("user"),
	}
}

func (s *UserService) Search(ctx context.Context, query string) ([]models.User, error) {
	return s.userRepo.Search(ctx, query, userSearchLimit)
}

func (s *UserService) SetBlocked(ctx context.Context, actorID, userID uint, blocked bool) error {
	if actorID == userID && blocked {
		return fmt.Errorf("%w: cannot block yourself", ErrInvalidInput)
	}
	if err := s.userRepo.SetBlocked(ctx, userID, blocked); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.logger.Info("user block state changed", zap.Uint("user_id", userID), zap.Bool("blocked", blocked), zap.Uint("by", actorID))
	return nil
}

func (s *UserService) Delete(ctx context.Context, actorID, userID uint) error {
	if actorID == userID {
		return fmt.Errorf("%w: cannot delete yourself", ErrInvalidInput)
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.logger.Info("user deleted", zap.Uint("user_id", userID), zap.Uint("by", actorID))
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, userID uint, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}
	hashed, err := bcrypt.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.SetPassword(ctx, userID, hashed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
