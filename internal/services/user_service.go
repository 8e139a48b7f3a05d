package services

import (
	"context"
	"fmt"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserService encapsulates the business logic for user accounts.
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// RegisterUser hashes the password and stores a new account with default
// notification preferences.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if user.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}
	user.HashedPassword = string(hashed)
	user.Preferences = models.DefaultPreferences()

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("Failed to register user")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}
	return created, nil
}

// AuthenticateUser checks credentials and returns the account on success.
func (s *UserService) AuthenticateUser(ctx context.Context, emailAddr, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", emailAddr).Warn("Failed login attempt")
		return nil, fmt.Errorf("invalid email or password")
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// UpdateFCMToken upserts the caller's push token.
func (s *UserService) UpdateFCMToken(ctx context.Context, id primitive.ObjectID, token string) error {
	if token == "" {
		return fmt.Errorf("fcm token is required")
	}
	return s.repo.UpdateFCMToken(ctx, id, token)
}

// UpdatePreferences replaces the caller's notification preferences.
func (s *UserService) UpdatePreferences(ctx context.Context, id primitive.ObjectID, prefs models.NotificationPreferences) error {
	return s.repo.UpdatePreferences(ctx, id, prefs)
}
