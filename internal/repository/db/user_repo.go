package db

import (
	"context"
	"errors"

	"github.com/liverylibrary/backend/internal/model"

	"gorm.io/gorm"
)

var ErrUsernameTaken = errors.New("username already taken")

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLogin accepts either the username or the email address.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("username = ? OR email = ?", login, login).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether the username or email is already registered.
func (r *UserRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	return r.UpdateFields(ctx, id, map[string]any{"password": hash})
}

func (r *UserRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]any) error {
	res := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Rename changes a username, checking uniqueness inside the same transaction as the write.
func (r *UserRepository) Rename(ctx context.Context, id uint64, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if user.Username == username {
			return nil
		}
		var taken int64
		if err := tx.Model(&model.User{}).
			Where("username = ? AND id <> ?", username, id).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrUsernameTaken
		}
		if err := tx.Model(&user).Update("username", username).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return err
		}
		user.Username = username
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]model.User, error) {
	users := make([]model.User, 0)
	err := r.DB.WithContext(ctx).
		Where(CaseInsensitiveLikeExpr(r.DB, "username"), LikePattern(r.DB, query)).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// Top ranks users by how many liveries they have published.
func (r *UserRepository) Top(ctx context.Context, limit int) ([]model.UserStats, error) {
	stats := make([]model.UserStats, 0)
	err := r.DB.WithContext(ctx).
		Table("users").
		Select("users.id, users.username, users.avatar_url, users.role, COUNT(liveries.id) AS livery_count").
		Joins("JOIN liveries ON liveries.author_id = users.id").
		Group("users.id, users.username, users.avatar_url, users.role").
		Order("livery_count DESC, users.id ASC").
		Limit(limit).
		Scan(&stats).Error
	return stats, err
}
