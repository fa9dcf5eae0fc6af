package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupGuestSessionServiceTest(t *testing.T) (*GuestSessionService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:guest_session_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.GuestSession{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewGuestSessionService(repository.NewGuestSessionRepository(db)), db
}

func TestGuestSessionIssueAndResolve(t *testing.T) {
	svc, _ := setupGuestSessionServiceTest(t)

	session, err := svc.Issue("test-agent", "203.0.113.10")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if session.ID == "" {
		t.Fatalf("issued session should carry an id")
	}

	resolved, err := svc.Resolve(session.ID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.ID != session.ID {
		t.Fatalf("resolved wrong session: %s", resolved.ID)
	}
}

func TestGuestSessionResolveUnknownToken(t *testing.T) {
	svc, _ := setupGuestSessionServiceTest(t)

	if _, err := svc.Resolve("no-such-session"); !errors.Is(err, ErrGuestSessionNotFound) {
		t.Fatalf("want ErrGuestSessionNotFound, got %v", err)
	}
	if _, err := svc.Resolve("  "); !errors.Is(err, ErrGuestSessionNotFound) {
		t.Fatalf("blank token should not resolve, got %v", err)
	}
}

func TestGuestSessionPurgeIdle(t *testing.T) {
	svc, db := setupGuestSessionServiceTest(t)

	session, err := svc.Issue("test-agent", "203.0.113.10")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	stale := time.Now().Add(-120 * 24 * time.Hour)
	if err := db.Model(&models.GuestSession{}).
		Where("id = ?", session.ID).
		Update("last_seen_at", stale).Error; err != nil {
		t.Fatalf("age session failed: %v", err)
	}

	purged, err := svc.PurgeIdle(time.Now())
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if purged != 1 {
		t.Fatalf("purged want 1 got %d", purged)
	}

	if _, err := svc.Resolve(session.ID); !errors.Is(err, ErrGuestSessionNotFound) {
		t.Fatalf("purged session should not resolve, got %v", err)
	}
}
