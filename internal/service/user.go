package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCurrentPassword = errors.New("current password is incorrect")

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
	}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, notFound("user", id)
	}
	return user, err
}

// ChangePassword replaces the identity's password. Accounts without one
// (OAuth only) can set a first password without currentPassword.
func (s *UserService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	identity, err := currentUser(ctx)
	if err != nil {
		return err
	}

	user, err := s.userRepository.ByID(ctx, identity.ID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.HasPassword() {
		err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(currentPassword))
		if err != nil {
			return ErrInvalidCurrentPassword
		}
	}

	err = validation.ValidatePassword(newPassword)
	if err != nil {
		return validation.Field("new_password", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	hashStr := string(hashedPassword)
	user.PasswordHash = &hashStr

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password changed", "user_id", user.ID)
	return nil
}
