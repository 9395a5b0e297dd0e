package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/AlvaroPereir4/FinScope/internal/core"
	"github.com/AlvaroPereir4/FinScope/internal/storage"
)

// Service registers and authenticates users against the record store.
type Service struct {
	storage *storage.SQLiteRepository
	tokens  *TokenManager
}

func NewService(storage *storage.SQLiteRepository, tokens *TokenManager) *Service {
	return &Service{storage: storage, tokens: tokens}
}

// Session is the result of a successful login or registration.
type Session struct {
	Owner    string
	Username string
	Token    string
}

// Register creates a user with a bcrypt password hash and logs them in.
func (s *Service) Register(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Session{}, fmt.Errorf("%w: username is required", core.ErrValidation)
	}
	if len(password) < 8 {
		return Session{}, fmt.Errorf("%w: password must be at least 8 characters", core.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user := storage.User{Username: username, PasswordHash: string(hash)}
	if err := s.storage.CreateUser(ctx, &user); err != nil {
		return Session{}, err
	}
	return s.session(user)
}

// Login verifies the password and issues a session token. Unknown
// usernames and wrong passwords are deliberately indistinguishable.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := s.storage.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, core.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(user)
}

// Authenticate validates a bearer token and returns its claims.
func (s *Service) Authenticate(token string) (*Claims, error) {
	return s.tokens.Validate(token)
}

func (s *Service) session(user storage.User) (Session, error) {
	token, err := s.tokens.Issue(user.ID.String(), user.Username)
	if err != nil {
		return Session{}, err
	}
	return Session{Owner: user.ID.String(), Username: user.Username, Token: token}, nil
}
