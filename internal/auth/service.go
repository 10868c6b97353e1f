package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/username/alarm-api/internal/apperr"
	"github.com/username/alarm-api/internal/user"
)

const (
	minPasswordLength = 6
	// bcrypt only accepts this many bytes of input
	maxPasswordBytes = 72
)

// errBadCredentials is shared by every login failure so callers cannot tell
// an unknown username from a wrong password.
var errBadCredentials = apperr.Unauthorized("invalid username or password")

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks a registration request. Login only needs both fields present.
func (c *Credentials) Validate(forRegister bool) error {
	fe := apperr.FieldErrors{}
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" {
		fe.Add("username", "is required")
	}
	switch {
	case c.Password == "":
		fe.Add("password", "is required")
	case forRegister && utf8.RuneCountInString(c.Password) < minPasswordLength:
		fe.Add("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	case forRegister && len(c.Password) > maxPasswordBytes:
		fe.Add("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	return fe.Err()
}

// Session is what register and login hand back to the client.
type Session struct {
	AccessToken string       `json:"accessToken"`
	User        user.Profile `json:"user"`
}

// Service is the credential store and token issuer.
type Service struct {
	users      *user.Repository
	tokens     *TokenIssuer
	bcryptCost int
}

func NewService(users *user.Repository, tokens *TokenIssuer, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

func (s *Service) Register(ctx context.Context, req Credentials) (*Session, error) {
	if err := req.Validate(true); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &user.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, req Credentials) (*Session, error) {
	if err := req.Validate(false); err != nil {
		return nil, err
	}

	u, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, errBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		// no stored password can be longer than bcrypt accepts
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("comparing password: %w", err)
	}
	return s.session(u)
}

// Profile returns the public view of the user behind a token.
func (s *Service) Profile(ctx context.Context, userID string) (*user.Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.Unauthorized("user no longer exists")
	}
	p := u.Profile()
	return &p, nil
}

func (s *Service) session(u *user.User) (*Session, error) {
	token, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, User: u.Profile()}, nil
}
