package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"woocrm/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	GetUser(ctx context.Context, id string) (*User, error)
}

type AuthServiceImpl struct {
	UserRepo UserRepository
}

func NewAuthService(userRepo UserRepository) AuthService {
	return &AuthServiceImpl{
		UserRepo: userRepo,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	if existing, err := s.UserRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("user with email %s already exists", email)
	} else if err != nil && err != mongo.ErrNoDocuments {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         "user",
		IsActive:     true,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

func (s *AuthServiceImpl) GetUser(ctx context.Context, id string) (*User, error) {
	return s.UserRepo.FindByID(ctx, id)
}
