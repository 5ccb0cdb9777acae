package model

import "time"

type NotificationKind string

const (
	NotificationLike    NotificationKind = "like"
	NotificationComment NotificationKind = "comment"
	NotificationSystem  NotificationKind = "system"
)

type Notification struct {
	ID           uint64           `gorm:"primaryKey" json:"id"`
	UserID       uint64           `gorm:"not null;index:idx_notification_user_time,priority:1" json:"userId"`
	ActorID      uint64           `gorm:"not null" json:"actorId"`
	Kind         NotificationKind `gorm:"size:16;not null" json:"type"`
	ResourceKind ResourceKind     `gorm:"size:16" json:"resourceKind"`
	ResourceID   uint64           `json:"resourceId"`
	Message      string           `gorm:"size:512;not null" json:"message"`
	Link         string           `gorm:"size:255" json:"link"`
	Read         bool             `gorm:"column:is_read;not null;default:false" json:"read"`
	DedupKey     *string          `gorm:"size:128;uniqueIndex" json:"-"`
	CreatedAt    time.Time        `gorm:"index:idx_notification_user_time,priority:2" json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// NotificationOutbox holds notification events waiting to be relayed to the broker.
type NotificationOutbox struct {
	ID             uint64 `gorm:"primaryKey"`
	EventType      string `gorm:"size:32;not null"`
	NotificationID uint64 `gorm:"not null"`
	RecipientID    uint64 `gorm:"not null"`
	Payload        string `gorm:"type:text;not null"`
	Status         int8   `gorm:"not null;default:0;index"`
	Retry          int    `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }
