package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type ResourceKind string

const (
	KindLivery    ResourceKind = "livery"
	KindDetailKit ResourceKind = "detail_kit"
)

const (
	SortNewest        = "newest"
	SortMostLiked     = "mostLiked"
	SortMostCommented = "mostCommented"
)

func (k ResourceKind) Table() string {
	if k == KindDetailKit {
		return "detail_kits"
	}
	return "liveries"
}

// Label is the human readable noun used in notification messages.
func (k ResourceKind) Label() string {
	if k == KindDetailKit {
		return "detail kit"
	}
	return "livery"
}

func (k ResourceKind) Link(id uint64) string {
	if k == KindDetailKit {
		return fmt.Sprintf("/details/%d", id)
	}
	return fmt.Sprintf("/liveries/%d", id)
}

// ResourceRef is the minimum needed to authorize against or notify about a resource.
type ResourceRef struct {
	Kind     ResourceKind
	ID       uint64
	AuthorID uint64
	Name     string
}

type Livery struct {
	ID           uint64                      `gorm:"primaryKey" json:"id"`
	Name         string                      `gorm:"size:200;not null" json:"name"`
	Aircraft     string                      `gorm:"size:120;not null;index" json:"aircraft"`
	AuthorID     uint64                      `gorm:"not null;index:idx_livery_author_time,priority:1" json:"authorId"`
	Author       *User                       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Description  string                      `gorm:"type:text" json:"description"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	DecalIDs     datatypes.JSONSlice[string] `json:"decalIds"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	Exclusive    bool                        `gorm:"not null;default:false" json:"exclusive"`
	LikeCount    int64                       `gorm:"not null;default:0" json:"likes"`
	CommentCount int64                       `gorm:"not null;default:0" json:"commentCount"`
	Comments     []Comment                   `gorm:"-" json:"comments,omitempty"`
	CreatedAt    time.Time                   `gorm:"index;index:idx_livery_author_time,priority:2" json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

func (Livery) TableName() string { return KindLivery.Table() }

func (l *Livery) Ref() ResourceRef {
	return ResourceRef{Kind: KindLivery, ID: l.ID, AuthorID: l.AuthorID, Name: l.Name}
}

type DetailKit struct {
	ID           uint64                      `gorm:"primaryKey" json:"id"`
	Name         string                      `gorm:"size:200;not null" json:"name"`
	Aircraft     string                      `gorm:"size:120;not null;index" json:"aircraft"`
	AuthorID     uint64                      `gorm:"not null;index:idx_detail_author_time,priority:1" json:"authorId"`
	Author       *User                       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Description  string                      `gorm:"type:text" json:"description"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	DownloadLink string                      `gorm:"size:1024;not null" json:"downloadLink"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	Exclusive    bool                        `gorm:"not null;default:false" json:"exclusive"`
	LikeCount    int64                       `gorm:"not null;default:0" json:"likes"`
	CommentCount int64                       `gorm:"not null;default:0" json:"commentCount"`
	Comments     []Comment                   `gorm:"-" json:"comments,omitempty"`
	CreatedAt    time.Time                   `gorm:"index;index:idx_detail_author_time,priority:2" json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

func (DetailKit) TableName() string { return KindDetailKit.Table() }

func (d *DetailKit) Ref() ResourceRef {
	return ResourceRef{Kind: KindDetailKit, ID: d.ID, AuthorID: d.AuthorID, Name: d.Name}
}
