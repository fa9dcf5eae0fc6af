package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupClaimRepositoryTest(t *testing.T) (*GormClaimRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:claim_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Restaurant{},
		&models.Special{},
		&models.SpecialClaim{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_special_claims_per_visit
		 ON special_claims (special_id, claimant_key, claim_day)
		 WHERE status != 'cancelled' AND claim_day != ''`,
	).Error; err != nil {
		t.Fatalf("create per-visit index failed: %v", err)
	}
	return NewClaimRepository(db), db
}

func createClaimTestSpecial(t *testing.T, db *gorm.DB, perVisit bool) models.Special {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	special := models.Special{
		RestaurantID:     1,
		Title:            "Lunch deal",
		DiscountKind:     constants.DiscountKindPercentage,
		DiscountLabel:    "10% off lunch",
		ValidFrom:        now.Add(-time.Hour),
		ValidUntil:       now.Add(time.Hour),
		MaxClaimsPerUser: 1,
		PerVisit:         perVisit,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := db.Create(&special).Error; err != nil {
		t.Fatalf("create special failed: %v", err)
	}
	return special
}

func newTestClaim(specialID uint, userID uint, day string) models.SpecialClaim {
	uid := userID
	now := time.Now().UTC().Truncate(time.Second)
	return models.SpecialClaim{
		ID:          uuid.NewString(),
		SpecialID:   specialID,
		UserID:      &uid,
		ClaimantKey: models.UserClaimantKey(userID),
		ClaimDay:    day,
		Status:      constants.ClaimStatusClaimed,
		RedeemCode:  uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestClaimRepositoryPerVisitIndexBlocksSameDayDuplicate(t *testing.T) {
	repo, db := setupClaimRepositoryTest(t)
	special := createClaimTestSpecial(t, db, true)
	day := time.Now().UTC().Format("2006-01-02")

	first := newTestClaim(special.ID, 7, day)
	if err := repo.Create(&first); err != nil {
		t.Fatalf("create first claim failed: %v", err)
	}

	second := newTestClaim(special.ID, 7, day)
	if err := repo.Create(&second); err == nil {
		t.Fatalf("second same-day claim should violate unique index")
	}

	// A different day for the same claimant is a separate visit.
	nextDay := newTestClaim(special.ID, 7, "2099-01-02")
	if err := repo.Create(&nextDay); err != nil {
		t.Fatalf("next-day claim should succeed: %v", err)
	}
}

func TestClaimRepositoryPerVisitIndexIgnoresCancelledAndNonPerVisit(t *testing.T) {
	repo, db := setupClaimRepositoryTest(t)
	special := createClaimTestSpecial(t, db, true)
	day := time.Now().UTC().Format("2006-01-02")

	first := newTestClaim(special.ID, 9, day)
	if err := repo.Create(&first); err != nil {
		t.Fatalf("create first claim failed: %v", err)
	}
	if rows, err := repo.Cancel(special.ID, first.ID); err != nil || rows != 1 {
		t.Fatalf("cancel failed: rows=%d err=%v", rows, err)
	}

	// After cancellation the slot opens again.
	retry := newTestClaim(special.ID, 9, day)
	if err := repo.Create(&retry); err != nil {
		t.Fatalf("claim after cancel should succeed: %v", err)
	}

	// Claims without a claim day never hit the index.
	multi := createClaimTestSpecial(t, db, false)
	for i := 0; i < 3; i++ {
		claim := newTestClaim(multi.ID, 9, "")
		if err := repo.Create(&claim); err != nil {
			t.Fatalf("non-per-visit claim %d should succeed: %v", i, err)
		}
	}
}

func TestClaimRepositoryMarkRedeemedIsSingleShot(t *testing.T) {
	repo, db := setupClaimRepositoryTest(t)
	special := createClaimTestSpecial(t, db, false)

	claim := newTestClaim(special.ID, 3, "")
	if err := repo.Create(&claim); err != nil {
		t.Fatalf("create claim failed: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	rows, err := repo.MarkRedeemed(special.ID, claim.ID, now)
	if err != nil {
		t.Fatalf("mark redeemed failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("first redeem rows want 1 got %d", rows)
	}

	rows, err = repo.MarkRedeemed(special.ID, claim.ID, now)
	if err != nil {
		t.Fatalf("second mark redeemed failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("second redeem rows want 0 got %d", rows)
	}

	stored, err := repo.GetBySpecialAndID(special.ID, claim.ID)
	if err != nil {
		t.Fatalf("get claim failed: %v", err)
	}
	if stored == nil || stored.Status != constants.ClaimStatusRedeemed {
		t.Fatalf("claim should be redeemed, got %+v", stored)
	}
	if stored.RedeemedAt == nil {
		t.Fatalf("redeemed_at should be set")
	}
}

func TestClaimRepositoryCountsExcludeCancelled(t *testing.T) {
	repo, db := setupClaimRepositoryTest(t)
	special := createClaimTestSpecial(t, db, false)

	kept := newTestClaim(special.ID, 11, "")
	if err := repo.Create(&kept); err != nil {
		t.Fatalf("create kept claim failed: %v", err)
	}
	dropped := newTestClaim(special.ID, 11, "")
	if err := repo.Create(&dropped); err != nil {
		t.Fatalf("create dropped claim failed: %v", err)
	}
	if rows, err := repo.Cancel(special.ID, dropped.ID); err != nil || rows != 1 {
		t.Fatalf("cancel failed: rows=%d err=%v", rows, err)
	}

	total, err := repo.CountBySpecial(special.ID)
	if err != nil {
		t.Fatalf("count by special failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("total want 1 got %d", total)
	}

	perUser, err := repo.CountBySpecialAndClaimant(special.ID, models.UserClaimantKey(11))
	if err != nil {
		t.Fatalf("count by claimant failed: %v", err)
	}
	if perUser != 1 {
		t.Fatalf("per-user count want 1 got %d", perUser)
	}
}

func TestClaimRepositoryExpireOverdueOnlyTouchesLapsedSpecials(t *testing.T) {
	repo, db := setupClaimRepositoryTest(t)
	now := time.Now().UTC().Truncate(time.Second)

	lapsed := createClaimTestSpecial(t, db, false)
	if err := db.Model(&models.Special{}).Where("id = ?", lapsed.ID).
		Update("valid_until", now.Add(-time.Minute)).Error; err != nil {
		t.Fatalf("backdate special failed: %v", err)
	}
	open := createClaimTestSpecial(t, db, false)

	lapsedClaim := newTestClaim(lapsed.ID, 21, "")
	if err := repo.Create(&lapsedClaim); err != nil {
		t.Fatalf("create lapsed claim failed: %v", err)
	}
	openClaim := newTestClaim(open.ID, 21, "")
	if err := repo.Create(&openClaim); err != nil {
		t.Fatalf("create open claim failed: %v", err)
	}
	redeemedClaim := newTestClaim(lapsed.ID, 22, "")
	if err := repo.Create(&redeemedClaim); err != nil {
		t.Fatalf("create redeemed claim failed: %v", err)
	}
	if rows, err := repo.MarkRedeemed(lapsed.ID, redeemedClaim.ID, now); err != nil || rows != 1 {
		t.Fatalf("redeem failed: rows=%d err=%v", rows, err)
	}

	rows, err := repo.ExpireOverdue(now)
	if err != nil {
		t.Fatalf("expire overdue failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expired rows want 1 got %d", rows)
	}

	stored, err := repo.GetByID(lapsedClaim.ID)
	if err != nil || stored == nil {
		t.Fatalf("get lapsed claim failed: %v", err)
	}
	if stored.Status != constants.ClaimStatusExpired {
		t.Fatalf("lapsed claim status want expired got %s", stored.Status)
	}

	stored, err = repo.GetByID(openClaim.ID)
	if err != nil || stored == nil {
		t.Fatalf("get open claim failed: %v", err)
	}
	if stored.Status != constants.ClaimStatusClaimed {
		t.Fatalf("open claim status want claimed got %s", stored.Status)
	}

	stored, err = repo.GetByID(redeemedClaim.ID)
	if err != nil || stored == nil {
		t.Fatalf("get redeemed claim failed: %v", err)
	}
	if stored.Status != constants.ClaimStatusRedeemed {
		t.Fatalf("redeemed claim status want redeemed got %s", stored.Status)
	}
}
