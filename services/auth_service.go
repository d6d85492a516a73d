//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"chat-live/auth"
	"chat-live/domain"
	"chat-live/errors"
	"chat-live/repositories"
	stderrors "errors"
	"fmt"
	"log/slog"
)

type IAuthService interface {
	Signup(username, password string) (domain.User, error)
	Login(username, password string) (string, domain.User, error)
}

type AuthService struct {
	log            *slog.Logger
	userRepository repositories.IUserRepository
	tokens         auth.Tokens
}

func NewAuthService(log *slog.Logger, repo repositories.IUserRepository, tokens auth.Tokens) *AuthService {
	return &AuthService{log: log, userRepository: repo, tokens: tokens}
}

// Signup validates the credentials before any expensive hashing, then stores the user.
func (s *AuthService) Signup(username, password string) (domain.User, error) {
	if err := auth.ValidateRegister(auth.RegisterRequest{Username: username, Password: password}); err != nil {
		return domain.User{}, err
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing failed: %w", err)
	}

	// ErrUserAlreadyExists propagates when the username is taken
	user, err := s.userRepository.CreateUser(username, hashedPassword)
	if err != nil {
		return domain.User{}, err
	}
	s.log.Info("User signed up", "user_id", user.ID)
	return user, nil
}

// Login returns a bearer token and the authenticated user.
// Unknown users and wrong passwords produce the same error.
func (s *AuthService) Login(username, password string) (string, domain.User, error) {
	user, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		if !stderrors.Is(err, errors.ErrUserNotFound) {
			s.log.Error("Unable to load user", "error", err)
		}
		return "", domain.User{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", domain.User{}, errors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Roles)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	return token, user, nil
}
