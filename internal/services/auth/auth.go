// Package auth содержит логику регистрации, входа и проверки JWT.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/creatorlens/creator-analytics/internal/lib/jwt"
	"github.com/creatorlens/creator-analytics/internal/lib/password"
	"github.com/creatorlens/creator-analytics/internal/models"
	"github.com/creatorlens/creator-analytics/internal/storage"
)

// ErrInvalidCredentials неверная пара логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его uid.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ListUsers возвращает пользователей постранично, старые первыми.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)

	// DeleteUser удаляет пользователя и возвращает число удалённых строк.
	DeleteUser(ctx context.Context, uid string) (int, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		JoinedAt:     time.Now().UTC(),
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		// Несуществующее имя неотличимо снаружи от неверного пароля.
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ListUsers возвращает пользователей постранично для административного обзора.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.users.ListUsers(ctx, limit, offset)
}

// DeleteUser удаляет пользователя по uid. Подписки удаляются каскадно
// на уровне схемы.
func (s *Service) DeleteUser(ctx context.Context, uid string) error {
	deleted, err := s.users.DeleteUser(ctx, uid)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

// ValidateToken проверяет JWT и возвращает данные пользователя из claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UID:      claims.UserUID,
	}, nil
}
