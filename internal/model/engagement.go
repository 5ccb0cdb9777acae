package model

import "time"

type Like struct {
	ID           uint64       `gorm:"primaryKey;autoIncrement"`
	ResourceKind ResourceKind `gorm:"size:16;not null;uniqueIndex:uk_like_resource_user,priority:1"`
	ResourceID   uint64       `gorm:"not null;uniqueIndex:uk_like_resource_user,priority:2"`
	UserID       uint64       `gorm:"not null;uniqueIndex:uk_like_resource_user,priority:3;index"`
	CreatedAt    time.Time
}

func (Like) TableName() string { return "likes" }

type Comment struct {
	ID           uint64       `gorm:"primaryKey" json:"id"`
	ResourceKind ResourceKind `gorm:"size:16;not null;index:idx_comment_resource,priority:1" json:"-"`
	ResourceID   uint64       `gorm:"not null;index:idx_comment_resource,priority:2" json:"-"`
	AuthorID     uint64       `gorm:"not null;index" json:"authorId"`
	Username     string       `gorm:"size:32;not null" json:"username"`
	Text         string       `gorm:"type:text;not null" json:"text"`
	CreatedAt    time.Time    `json:"date"`
}

func (Comment) TableName() string { return "comments" }
