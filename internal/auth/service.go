package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/mathapp/internal/store"
)

var (
	// ErrMissingCredentials is returned when the email or password is blank.
	ErrMissingCredentials = errors.New("email and password are required")

	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenInvalid wraps every token verification failure.
	ErrTokenInvalid = errors.New("invalid token")
)

// The demo account seeded into every fresh server database.
const (
	DemoEmail    = "demo_user@example.com"
	DemoPassword = "demo_user"
	DemoName     = "Demo User"
)

// minSignupPassword is the shortest password accepted by open signup.
const minSignupPassword = 4

// DemoUser returns the demo account with its password hashed, ready to seed.
func DemoUser() (store.User, error) {
	hash, err := HashPassword(DemoPassword)
	if err != nil {
		return store.User{}, fmt.Errorf("hash demo password: %w", err)
	}
	return store.User{
		ID:           uuid.NewSHA1(uuid.NameSpaceURL, []byte("mathapp:"+DemoEmail)).String(),
		Name:         DemoName,
		Email:        DemoEmail,
		PasswordHash: hash,
	}, nil
}

// Service authenticates learners and issues tokens.
type Service struct {
	users      store.UserRepo
	tokens     *JWTManager
	openSignup bool
}

// NewService creates an auth service. With openSignup, a login for an unknown
// email registers that learner instead of failing.
func NewService(users store.UserRepo, tokens *JWTManager, openSignup bool) *Service {
	return &Service{users: users, tokens: tokens, openSignup: openSignup}
}

// Login checks the credentials and returns the user with a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*store.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	user, err := s.users.ByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if !s.openSignup {
			return nil, "", ErrInvalidCredentials
		}
		user, err = s.register(ctx, email, password)
		if err != nil {
			return nil, "", err
		}
	case err != nil:
		return nil, "", fmt.Errorf("look up user: %w", err)
	case !CheckPassword(password, user.PasswordHash):
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Verify parses a bearer token.
func (s *Service) Verify(token string) (*Claims, error) {
	return s.tokens.Parse(token)
}

func (s *Service) register(ctx context.Context, email, password string) (*store.User, error) {
	local, _, ok := strings.Cut(email, "@")
	if !ok || local == "" || len(password) < minSignupPassword {
		return nil, ErrInvalidCredentials
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &store.User{
		ID:           uuid.NewString(),
		Name:         local,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	return user, nil
}
