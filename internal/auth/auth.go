// Package auth — регистрация, вход и bearer-токены.
package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"catalog/internal/models"
	"catalog/internal/repository"
	"catalog/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type Service struct {
	db     *gorm.DB
	tokens TokenStore
}

func NewService(db *gorm.DB, tokens TokenStore) *Service {
	return &Service{db: db, tokens: tokens}
}

// Register создаёт пользователя и сразу выдаёт токен
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	db := s.db.WithContext(ctx)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	taken, err := repository.Exists(db, &models.User{}, "email", email, 0)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", validation.Field("email", validation.Message("email", "unique", ""))
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	u := models.User{Name: strings.TrimSpace(in.Name), Email: email, PasswordHash: hash}
	if err := db.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", validation.Field("email", validation.Message("email", "unique", ""))
		}
		return nil, "", err
	}
	token, err := s.issue(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !models.CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.issue(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, HashToken(token))
}

// Authenticate — пользователь по bearer-токену
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	id, err := s.tokens.Lookup(ctx, HashToken(token))
	if errors.Is(err, ErrTokenNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return s.User(ctx, id)
}

// User — пользователь по id (для cookie-сессии)
func (s *Service) User(ctx context.Context, id uint) (*models.User, error) {
	u, err := repository.FindByID[models.User](s.db.WithContext(ctx), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	return u, err
}

func (s *Service) issue(ctx context.Context, userID uint) (string, error) {
	token := NewToken()
	if err := s.tokens.Put(ctx, HashToken(token), userID); err != nil {
		return "", err
	}
	return token, nil
}
