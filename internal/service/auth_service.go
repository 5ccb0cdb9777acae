package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/pkg"
	"github.com/liverylibrary/backend/internal/repository/db"
	"github.com/liverylibrary/backend/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

// SessionStore keeps the one valid access token per user.
type SessionStore interface {
	Save(ctx context.Context, userID uint64, token string) error
	Get(ctx context.Context, userID uint64) (string, error)
	Touch(ctx context.Context, userID uint64) error
	Delete(ctx context.Context, userID uint64) error
}

type ResetCodeStore interface {
	Save(ctx context.Context, email, code string) error
	Consume(ctx context.Context, email, code string) (bool, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type AuthService struct {
	users    *db.UserRepository
	tokens   *pkg.TokenIssuer
	sessions SessionStore
	codes    ResetCodeStore
	mailer   Mailer
	codeTTL  time.Duration
}

type AuthOption func(*AuthService)

// WithSessions enables the single-session whitelist.
func WithSessions(store SessionStore) AuthOption {
	return func(s *AuthService) { s.sessions = store }
}

// WithPasswordReset enables emailed reset codes.
func WithPasswordReset(codes ResetCodeStore, mailer Mailer, ttl time.Duration) AuthOption {
	return func(s *AuthService) {
		s.codes = codes
		s.mailer = mailer
		s.codeTTL = ttl
	}
}

func NewAuthService(users *db.UserRepository, tokens *pkg.TokenIssuer, opts ...AuthOption) *AuthService {
	s := &AuthService{users: users, tokens: tokens}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLen {
		return "", invalid("password must be at least %d characters", minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("invalid email address")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: username or email already registered", ErrConflict)
	}
	user := &model.User{Username: username, Email: email, Password: hash, Role: model.RoleMember}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username or email already registered", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, login, password string) (*pkg.Pair, error) {
	user, err := s.users.FindByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	return s.issue(ctx, user)
}

func (s *AuthService) issue(ctx context.Context, user *model.User) (*pkg.Pair, error) {
	pair, err := s.tokens.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	if s.sessions != nil {
		if err := s.sessions.Save(ctx, user.ID, pair.AccessToken); err != nil {
			return nil, fmt.Errorf("%w: session store: %v", ErrUpstream, err)
		}
	}
	return pair, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, actor model.Actor) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Delete(ctx, actor.ID)
}

// Authenticate resolves an access token to the current state of its user, so role
// changes apply without waiting for the token to expire.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (model.Actor, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return model.Actor{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if s.sessions != nil {
		current, err := s.sessions.Get(ctx, claims.UserID)
		if errors.Is(err, redis.ErrSessionNotFound) || (err == nil && current != accessToken) {
			return model.Actor{}, fmt.Errorf("%w: session expired or signed in elsewhere", ErrUnauthorized)
		}
		if err != nil {
			return model.Actor{}, fmt.Errorf("%w: session store: %v", ErrUpstream, err)
		}
		if err := s.sessions.Touch(ctx, claims.UserID); err != nil {
			return model.Actor{}, fmt.Errorf("%w: session store: %v", ErrUpstream, err)
		}
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Actor{}, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
	}
	if err != nil {
		return model.Actor{}, err
	}
	return user.Actor(), nil
}

// RequestPasswordReset emails a one-time code. Unknown addresses succeed silently.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if s.codes == nil || s.mailer == nil {
		return fmt.Errorf("%w: password reset", ErrDisabled)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	code, err := pkg.NewResetCode()
	if err != nil {
		return err
	}
	if err := s.codes.Save(ctx, email, code); err != nil {
		return fmt.Errorf("%w: code store: %v", ErrUpstream, err)
	}
	body := pkg.ResetCodeHTML(user.Username, code, s.codeTTL)
	if err := s.mailer.Send(ctx, email, "Livery Library password reset", body); err != nil {
		return fmt.Errorf("%w: mail: %v", ErrUpstream, err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if s.codes == nil {
		return fmt.Errorf("%w: password reset", ErrDisabled)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	ok, err := s.codes.Consume(ctx, email, strings.TrimSpace(code))
	if err != nil {
		return fmt.Errorf("%w: code store: %v", ErrUpstream, err)
	}
	if !ok {
		return invalid("reset code is invalid or expired")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return notFound("user", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	return s.Logout(ctx, user.Actor())
}

// ChangePassword requires the current password and ends the active session.
func (s *AuthService) ChangePassword(ctx context.Context, actor model.Actor, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return notFound("user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return invalid("current password is incorrect")
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	return s.Logout(ctx, actor)
}
