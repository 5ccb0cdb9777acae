package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/liverylibrary/backend/internal/media"
	"github.com/liverylibrary/backend/internal/model"
	"github.com/liverylibrary/backend/internal/repository/db"
	"github.com/liverylibrary/backend/internal/testutil"

	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// fakeUploader succeeds until failAt uploads have been attempted (0 means never fail).
type fakeUploader struct {
	mu       sync.Mutex
	failAt   int
	attempts int
	stored   map[string]bool
	removed  []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{stored: map[string]bool{}}
}

func (u *fakeUploader) Upload(_ context.Context, folder string, f media.File) (media.Uploaded, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.attempts++
	if u.failAt > 0 && u.attempts >= u.failAt {
		return media.Uploaded{}, fmt.Errorf("%w: host unavailable", media.ErrUploadFailed)
	}
	if f.Name == "bad.gif" {
		return media.Uploaded{}, media.ErrUnsupportedFormat
	}
	id := fmt.Sprintf("%s/%d-%s", folder, u.attempts, f.Name)
	u.stored[id] = true
	return media.Uploaded{PublicID: id, URL: "https://cdn.example.com/" + id}, nil
}

func (u *fakeUploader) Remove(_ context.Context, publicID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.stored[publicID] {
		return errors.New("not stored")
	}
	delete(u.stored, publicID)
	u.removed = append(u.removed, publicID)
	return nil
}

type fixture struct {
	conn          *gorm.DB
	uploader      *fakeUploader
	liveries      *LiveryService
	details       *DetailKitService
	users         *UserService
	engagement    *EngagementService
	notifications *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.NewDB(t)
	logger := zaptest.NewLogger(t)
	uploader := newFakeUploader()

	liveryRepo := db.NewLiveryRepository(conn)
	detailRepo := db.NewDetailKitRepository(conn)
	notifications := NewNotificationService(&db.NotificationRepository{DB: conn})
	engagement := NewEngagementService(
		&db.LikeRepository{DB: conn},
		&db.CommentRepository{DB: conn},
		notifications, liveryRepo, detailRepo, logger,
	)
	uploads := NewUploadService(uploader, logger)

	return &fixture{
		conn:          conn,
		uploader:      uploader,
		liveries:      NewLiveryService(liveryRepo, engagement, uploads),
		details:       NewDetailKitService(detailRepo, engagement, uploads),
		users:         NewUserService(&db.UserRepository{DB: conn}, liveryRepo, uploads),
		engagement:    engagement,
		notifications: notifications,
	}
}

func (f *fixture) actor(t *testing.T, name string, role model.Role) model.Actor {
	t.Helper()
	return testutil.CreateUser(t, f.conn, name, role).Actor()
}

func images(names ...string) []media.File {
	files := make([]media.File, len(names))
	for i, n := range names {
		files[i] = media.File{Name: n}
	}
	return files
}
