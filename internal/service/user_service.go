package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/auth"
	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/user"
)

// UserService handles registration and login.
type UserService struct {
	users user.Repository
	jwt   *config.JWTConfig
}

// NewUserService creates the user service.
func NewUserService(users user.Repository, jwt *config.JWTConfig) *UserService {
	return &UserService{users: users, jwt: jwt}
}

// Register creates a customer account and returns it with a fresh token.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*user.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || name == "" || len(password) < 6 {
		return nil, "", ErrInvalidCredentials
	}

	salt, err := newSalt()
	if err != nil {
		return nil, "", err
	}
	u := &user.User{
		Email:    email,
		Name:     name,
		Password: hashPassword(password, salt),
		Salt:     salt,
		Role:     user.RoleCustomer,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := auth.GenerateToken(s.jwt, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login checks credentials and returns the user with a fresh token.
func (s *UserService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	want := hashPassword(password, u.Salt)
	if subtle.ConstantTimeCompare([]byte(want), []byte(u.Password)) != 1 {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.jwt, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// CreateWithRole creates an account with an explicit role. Used by
// seeding and admin tooling, never by the public API.
func (s *UserService) CreateWithRole(ctx context.Context, email, name, password, role string) (*user.User, error) {
	salt, err := newSalt()
	if err != nil {
		return nil, err
	}
	u := &user.User{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Name:     name,
		Password: hashPassword(password, salt),
		Salt:     salt,
		Role:     role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// GetByID loads an account.
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

func hashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}

func newSalt() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
