package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/liverylibrary/backend/internal/media"
	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/repository/db"
)

const (
	MaxBioLength    = 300
	TopUsersLimit   = 6
	UserSearchLimit = 8
	minUsernameLen  = 3
	maxUsernameLen  = 32
	avatarColumn    = "avatar_url"
	bannerColumn    = "banner_url"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func validateUsername(name string) error {
	if n := len(name); n < minUsernameLen || n > maxUsernameLen {
		return invalid("username must be %d-%d characters", minUsernameLen, maxUsernameLen)
	}
	if !usernamePattern.MatchString(name) {
		return invalid("username may only contain letters, digits, '_', '.' and '-'")
	}
	return nil
}

// Profile is the public view of a user with their liveries.
type Profile struct {
	User     *model.User    `json:"user"`
	Liveries []model.Livery `json:"liveries"`
}

type UserService struct {
	repo     *db.UserRepository
	liveries *db.ResourceRepository[model.Livery]
	uploads  *UploadService
}

func NewUserService(repo *db.UserRepository, liveries *db.ResourceRepository[model.Livery], uploads *UploadService) *UserService {
	return &UserService{repo: repo, liveries: liveries, uploads: uploads}
}

func (s *UserService) Profile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound("user", err)
	}
	liveries, err := s.liveries.List(ctx, db.Filter{AuthorID: user.ID}, 0, 0)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Liveries: liveries}, nil
}

func (s *UserService) Top(ctx context.Context) ([]model.UserStats, error) {
	return s.repo.Top(ctx, TopUsersLimit)
}

func (s *UserService) Search(ctx context.Context, query string) ([]model.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("search query is required")
	}
	return s.repo.Search(ctx, query, UserSearchLimit)
}

func (s *UserService) SetAvatar(ctx context.Context, actor model.Actor, f media.File) (string, error) {
	return s.setImage(ctx, actor, avatarColumn, f)
}

func (s *UserService) SetBanner(ctx context.Context, actor model.Actor, f media.File) (string, error) {
	return s.setImage(ctx, actor, bannerColumn, f)
}

func (s *UserService) setImage(ctx context.Context, actor model.Actor, column string, f media.File) (string, error) {
	up, err := s.uploads.UploadOne(ctx, media.FolderUsers, f)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateFields(ctx, actor.ID, map[string]any{column: up.URL}); err != nil {
		s.uploads.Discard(ctx, []media.Uploaded{up})
		return "", notFound("user", err)
	}
	return up.URL, nil
}

func (s *UserService) UpdateBio(ctx context.Context, actor model.Actor, bio string) (string, error) {
	bio = strings.TrimSpace(bio)
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return "", invalid("bio must be at most %d characters", MaxBioLength)
	}
	if err := s.repo.UpdateFields(ctx, actor.ID, map[string]any{"bio": bio}); err != nil {
		return "", notFound("user", err)
	}
	return bio, nil
}

func (s *UserService) ClearAvatar(ctx context.Context, actor model.Actor, userID uint64) error {
	return s.clearImage(ctx, actor, userID, avatarColumn)
}

func (s *UserService) ClearBanner(ctx context.Context, actor model.Actor, userID uint64) error {
	return s.clearImage(ctx, actor, userID, bannerColumn)
}

func (s *UserService) clearImage(ctx context.Context, actor model.Actor, userID uint64, column string) error {
	if err := requirePrivileged(actor); err != nil {
		return err
	}
	return notFound("user", s.repo.UpdateFields(ctx, userID, map[string]any{column: ""}))
}

// Rename changes another user's username. Only privileged roles may do this.
func (s *UserService) Rename(ctx context.Context, actor model.Actor, userID uint64, username string) (*model.User, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	user, err := s.repo.Rename(ctx, userID, username)
	if errors.Is(err, db.ErrUsernameTaken) {
		return nil, fmt.Errorf("%w: username %q is taken", ErrConflict, username)
	}
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}
