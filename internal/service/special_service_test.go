package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSpecialServiceTest(t *testing.T) (*SpecialService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:special_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Restaurant{},
		&models.Special{},
		&models.SpecialClaim{},
		&models.SpecialEvent{},
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
	svc := NewSpecialService(
		repository.NewSpecialRepository(db),
		repository.NewClaimRepository(db),
		repository.NewSpecialEventRepository(db),
		nil,
		nil,
		time.Minute,
		128,
	)
	return svc, db
}

func createServiceTestSpecial(t *testing.T, db *gorm.DB, mutate func(*models.Special)) models.Special {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	special := models.Special{
		RestaurantID:     1,
		Title:            "Falafel special",
		DiscountKind:     constants.DiscountKindPercentage,
		DiscountLabel:    "10% off lunch",
		ValidFrom:        now.Add(-time.Hour),
		ValidUntil:       now.Add(time.Hour),
		MaxClaimsPerUser: 1,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if mutate != nil {
		mutate(&special)
	}
	if err := db.Create(&special).Error; err != nil {
		t.Fatalf("create special failed: %v", err)
	}
	return special
}

func TestIsSpecialActiveBoundsInclusive(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	from := now.Add(-time.Hour)
	until := now.Add(time.Hour)

	cases := []struct {
		name string
		at   time.Time
		flag bool
		want bool
	}{
		{"inside window", now, true, true},
		{"at valid_from", from, true, true},
		{"at valid_until", until, true, true},
		{"before window", from.Add(-time.Second), true, false},
		{"after window", until.Add(time.Second), true, false},
		{"flag off", now, false, false},
	}
	for _, tc := range cases {
		if got := IsSpecialActive(tc.at, from, until, tc.flag); got != tc.want {
			t.Fatalf("%s: want %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestClaimRequiresExactlyOneClaimant(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)
	special := createServiceTestSpecial(t, db, nil)

	if _, err := svc.Claim(ClaimInput{SpecialID: special.ID}); err != ErrClaimantMissing {
		t.Fatalf("no claimant: want ErrClaimantMissing got %v", err)
	}
	if _, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: 1, GuestSessionID: "g-token"}); err != ErrClaimantMissing {
		t.Fatalf("both claimants: want ErrClaimantMissing got %v", err)
	}
}

func TestClaimExpiredSpecialNeverInsertsARow(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)
	special := createServiceTestSpecial(t, db, func(sp *models.Special) {
		sp.ValidFrom = time.Now().UTC().Add(-48 * time.Hour)
		sp.ValidUntil = time.Now().UTC().Add(-24 * time.Hour)
	})

	if _, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: 5}); err != ErrSpecialExpired {
		t.Fatalf("want ErrSpecialExpired got %v", err)
	}

	var count int64
	if err := db.Model(&models.SpecialClaim{}).Where("special_id = ?", special.ID).Count(&count).Error; err != nil {
		t.Fatalf("count claims failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expired special must not gain claims, got %d", count)
	}
}

func TestClaimNotYetStartedAndDisabledSpecials(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)

	future := createServiceTestSpecial(t, db, func(sp *models.Special) {
		sp.ValidFrom = time.Now().UTC().Add(time.Hour)
		sp.ValidUntil = time.Now().UTC().Add(2 * time.Hour)
	})
	if _, err := svc.Claim(ClaimInput{SpecialID: future.ID, UserID: 5}); err != ErrSpecialNotStarted {
		t.Fatalf("want ErrSpecialNotStarted got %v", err)
	}

	disabled := createServiceTestSpecial(t, db, func(sp *models.Special) {
		sp.IsActive = false
	})
	if _, err := svc.Claim(ClaimInput{SpecialID: disabled.ID, UserID: 5}); err != ErrSpecialDisabled {
		t.Fatalf("want ErrSpecialDisabled got %v", err)
	}

	if _, err := svc.Claim(ClaimInput{SpecialID: 99999, UserID: 5}); err != ErrSpecialNotFound {
		t.Fatalf("want ErrSpecialNotFound got %v", err)
	}
}

func TestCreateDisabledSpecialStaysDisabled(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)
	special := createServiceTestSpecial(t, db, func(sp *models.Special) {
		sp.IsActive = false
	})

	var stored models.Special
	if err := db.First(&stored, special.ID).Error; err != nil {
		t.Fatalf("reload special failed: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("disabled special was stored as active")
	}
	if _, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: 5}); err != ErrSpecialDisabled {
		t.Fatalf("want ErrSpecialDisabled got %v", err)
	}
}

func TestClaimTotalCapAdmitsExactlyMax(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)
	maxTotal := 5
	special := createServiceTestSpecial(t, db, func(sp *models.Special) {
		sp.MaxClaimsTotal = &maxTotal
	})

	successes := 0
	var lastErr error
	for userID := uint(1); userID <= 6; userID++ {
		_, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: userID})
		if err == nil {
			successes++
			continue
		}
		lastErr = err
	}
	if successes != 5 {
		t.Fatalf("successes want 5 got %d", successes)
	}
	if lastErr != ErrClaimTotalLimit {
		t.Fatalf("want ErrClaimTotalLimit got %v", lastErr)
	}

	var count int64
	if err := db.Model(&models.SpecialClaim{}).Where("special_id = ?", special.ID).Count(&count).Error; err != nil {
		t.Fatalf("count claims failed: %v", err)
	}
	if count != 5 {
		t.Fatalf("row count want 5 got %d", count)
	}
}

func TestClaimTotalCapUnderConcurrentClaims(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)
	maxTotal := 5
	special := createServiceTestSpecial(t, db, func(sp *models.Special) {
		sp.MaxClaimsTotal = &maxTotal
	})

	// sqlite allows a single writer; pin the pool to one connection so the
	// concurrent transactions queue instead of failing with busy errors.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	const claimants = 6
	errs := make([]error, claimants)
	var wg sync.WaitGroup
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = svc.Claim(ClaimInput{SpecialID: special.ID, UserID: uint(slot + 1)})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, claimErr := range errs {
		switch claimErr {
		case nil:
			successes++
		case ErrClaimTotalLimit:
		default:
			t.Fatalf("unexpected claim error: %v", claimErr)
		}
	}
	if successes != maxTotal {
		t.Fatalf("successes want %d got %d", maxTotal, successes)
	}

	var count int64
	if err := db.Model(&models.SpecialClaim{}).Where("special_id = ?", special.ID).Count(&count).Error; err != nil {
		t.Fatalf("count claims failed: %v", err)
	}
	if count != int64(maxTotal) {
		t.Fatalf("row count want %d got %d", maxTotal, count)
	}
}

func TestClaimPerUserCap(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)
	special := createServiceTestSpecial(t, db, func(sp *models.Special) {
		sp.MaxClaimsPerUser = 2
	})

	if _, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: 3}); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if _, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: 3}); err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if _, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: 3}); err != ErrClaimPerUserLimit {
		t.Fatalf("want ErrClaimPerUserLimit got %v", err)
	}

	// A different claimant is unaffected.
	if _, err := svc.Claim(ClaimInput{SpecialID: special.ID, GuestSessionID: "guest-a"}); err != nil {
		t.Fatalf("guest claim failed: %v", err)
	}
}

func TestClaimPerVisitOncePerDay(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)
	special := createServiceTestSpecial(t, db, func(sp *models.Special) {
		sp.PerVisit = true
		sp.ValidFrom = time.Now().UTC().Add(-72 * time.Hour)
		sp.ValidUntil = time.Now().UTC().Add(72 * time.Hour)
	})

	first, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: 8})
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if first.ClaimDay == "" {
		t.Fatalf("per-visit claim must record its day")
	}

	if _, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: 8}); err != ErrClaimAlreadyToday {
		t.Fatalf("same-day reclaim: want ErrClaimAlreadyToday got %v", err)
	}

	// Move the first claim to yesterday; a new claim today then succeeds.
	yesterday := time.Now().UTC().Add(-24 * time.Hour).Format("2006-01-02")
	if err := db.Model(&models.SpecialClaim{}).Where("id = ?", first.ID).
		Update("claim_day", yesterday).Error; err != nil {
		t.Fatalf("backdate claim failed: %v", err)
	}
	if _, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: 8}); err != nil {
		t.Fatalf("next-day claim failed: %v", err)
	}
}

func TestRedeemHappyPathAndDoubleRedeemConflicts(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)
	special := createServiceTestSpecial(t, db, nil)

	claim, err := svc.Claim(ClaimInput{SpecialID: special.ID, GuestSessionID: "guest-r"})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	redeemed, err := svc.Redeem(RedeemInput{SpecialID: special.ID, ClaimID: claim.ID})
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if redeemed.Status != constants.ClaimStatusRedeemed {
		t.Fatalf("status want redeemed got %s", redeemed.Status)
	}
	if redeemed.RedeemedAt == nil {
		t.Fatalf("redeemed_at should be set")
	}

	if _, err := svc.Redeem(RedeemInput{SpecialID: special.ID, ClaimID: claim.ID}); err != ErrClaimNotRedeemable {
		t.Fatalf("double redeem: want ErrClaimNotRedeemable got %v", err)
	}
}

func TestRedeemValidatesCodeWhenRequired(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)
	special := createServiceTestSpecial(t, db, func(sp *models.Special) {
		sp.RequiresCode = true
	})

	claim, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: 4})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	if _, err := svc.Redeem(RedeemInput{SpecialID: special.ID, ClaimID: claim.ID}); err != ErrRedeemCodeRequired {
		t.Fatalf("missing code: want ErrRedeemCodeRequired got %v", err)
	}
	if _, err := svc.Redeem(RedeemInput{SpecialID: special.ID, ClaimID: claim.ID, RedeemCode: "wrong"}); err != ErrRedeemCodeMismatch {
		t.Fatalf("wrong code: want ErrRedeemCodeMismatch got %v", err)
	}
	if _, err := svc.Redeem(RedeemInput{SpecialID: special.ID, ClaimID: claim.ID, RedeemCode: claim.RedeemCode}); err != nil {
		t.Fatalf("correct code redeem failed: %v", err)
	}
}

func TestRedeemUnknownClaimAndWrongSpecial(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)
	special := createServiceTestSpecial(t, db, nil)
	other := createServiceTestSpecial(t, db, nil)

	claim, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: 6})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	if _, err := svc.Redeem(RedeemInput{SpecialID: special.ID, ClaimID: "no-such-claim"}); err != ErrClaimNotFound {
		t.Fatalf("unknown claim: want ErrClaimNotFound got %v", err)
	}
	// A claim id under the wrong special is NotFound, not Conflict.
	if _, err := svc.Redeem(RedeemInput{SpecialID: other.ID, ClaimID: claim.ID}); err != ErrClaimNotFound {
		t.Fatalf("wrong special: want ErrClaimNotFound got %v", err)
	}
}

func TestTrackValidatesEventTypeAndPersistsInline(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)
	special := createServiceTestSpecial(t, db, nil)

	if err := svc.Track(TrackInput{SpecialID: special.ID, EventType: "purchase"}); err != ErrEventTypeInvalid {
		t.Fatalf("bad event type: want ErrEventTypeInvalid got %v", err)
	}
	if err := svc.Track(TrackInput{SpecialID: special.ID, EventType: "View", UserID: 2}); err != nil {
		t.Fatalf("track view failed: %v", err)
	}
	if err := svc.Track(TrackInput{SpecialID: special.ID, EventType: "share", GuestToken: "guest-t"}); err != nil {
		t.Fatalf("track share failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.SpecialEvent{}).Where("special_id = ?", special.ID).Count(&count).Error; err != nil {
		t.Fatalf("count events failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("event count want 2 got %d", count)
	}
}

func TestClaimQRCodeOnlyForOpenClaims(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)
	special := createServiceTestSpecial(t, db, nil)

	claim, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: 12})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	png, err := svc.ClaimQRCode(special.ID, claim.ID)
	if err != nil {
		t.Fatalf("qr encode failed: %v", err)
	}
	if len(png) == 0 {
		t.Fatalf("qr png should not be empty")
	}

	if _, err := svc.Redeem(RedeemInput{SpecialID: special.ID, ClaimID: claim.ID}); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if _, err := svc.ClaimQRCode(special.ID, claim.ID); err != ErrClaimNotRedeemable {
		t.Fatalf("redeemed claim qr: want ErrClaimNotRedeemable got %v", err)
	}
}

func TestEffectiveClaimStatusOverlaysExpiry(t *testing.T) {
	now := time.Now().UTC()
	special := &models.Special{ValidUntil: now.Add(-time.Hour)}
	claim := &models.SpecialClaim{Status: constants.ClaimStatusClaimed}

	if got := EffectiveClaimStatus(claim, special, now); got != constants.ClaimStatusExpired {
		t.Fatalf("open claim on lapsed special: want expired got %s", got)
	}

	claim.Status = constants.ClaimStatusRedeemed
	if got := EffectiveClaimStatus(claim, special, now); got != constants.ClaimStatusRedeemed {
		t.Fatalf("redeemed claim must keep its status, got %s", got)
	}

	claim.Status = constants.ClaimStatusClaimed
	special.ValidUntil = now.Add(time.Hour)
	if got := EffectiveClaimStatus(claim, special, now); got != constants.ClaimStatusClaimed {
		t.Fatalf("open claim within window: want claimed got %s", got)
	}
}

func TestExpireOverdueClaimsSweep(t *testing.T) {
	svc, db := setupSpecialServiceTest(t)
	now := time.Now().UTC().Truncate(time.Second)
	special := createServiceTestSpecial(t, db, nil)

	claim, err := svc.Claim(ClaimInput{SpecialID: special.ID, UserID: 30})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := db.Model(&models.Special{}).Where("id = ?", special.ID).
		Update("valid_until", now.Add(-time.Minute)).Error; err != nil {
		t.Fatalf("backdate special failed: %v", err)
	}

	rows, err := svc.ExpireOverdueClaims(now)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("swept rows want 1 got %d", rows)
	}

	var stored models.SpecialClaim
	if err := db.Where("id = ?", claim.ID).First(&stored).Error; err != nil {
		t.Fatalf("reload claim failed: %v", err)
	}
	if stored.Status != constants.ClaimStatusExpired {
		t.Fatalf("status want expired got %s", stored.Status)
	}
}
