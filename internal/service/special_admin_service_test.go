package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSpecialAdminServiceTest(t *testing.T) (*SpecialAdminService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:special_admin_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	svc := NewSpecialAdminService(
		repository.NewSpecialRepository(db),
		repository.NewClaimRepository(db),
		repository.NewSpecialEventRepository(db),
		repository.NewRestaurantRepository(db),
		nil,
	)
	return svc, db
}

func TestAdminCreateSpecialHonorsDisabledFlag(t *testing.T) {
	svc, db := setupSpecialAdminServiceTest(t)
	restaurant := models.Restaurant{
		Name:    "Grill Spot",
		Slug:    "grill-spot",
		Address: "1 Glades Rd",
		Status:  constants.RestaurantStatusApproved,
	}
	if err := db.Create(&restaurant).Error; err != nil {
		t.Fatalf("create restaurant failed: %v", err)
	}

	now := time.Now().UTC()
	disabled := false
	special, err := svc.CreateSpecial(SpecialCreateInput{
		RestaurantID:  restaurant.ID,
		Title:         "Soft launch lunch deal",
		DiscountKind:  constants.DiscountKindPercentage,
		DiscountLabel: "10% off",
		ValidFrom:     now.Add(-time.Hour),
		ValidUntil:    now.Add(time.Hour),
		IsActive:      &disabled,
	})
	if err != nil {
		t.Fatalf("create special failed: %v", err)
	}

	var stored models.Special
	if err := db.First(&stored, special.ID).Error; err != nil {
		t.Fatalf("reload special failed: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("special created disabled must stay disabled")
	}

	// Omitting the flag keeps the default of active.
	active, err := svc.CreateSpecial(SpecialCreateInput{
		RestaurantID:  restaurant.ID,
		Title:         "Launched lunch deal",
		DiscountKind:  constants.DiscountKindPercentage,
		DiscountLabel: "10% off",
		ValidFrom:     now.Add(-time.Hour),
		ValidUntil:    now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create active special failed: %v", err)
	}
	if !active.IsActive {
		t.Fatalf("special without the flag must default to active")
	}
}
