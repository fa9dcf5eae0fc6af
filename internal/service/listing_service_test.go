package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupListingServiceTest(t *testing.T) (*ListingService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:listing_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Listing{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewListingService(repository.NewListingRepository(db)), db
}

func createTestListing(t *testing.T, svc *ListingService, sellerID uint) *models.Listing {
	t.Helper()
	listing, err := svc.CreateListing(ListingCreateInput{
		SellerID: sellerID,
		Title:    "Shabbat hot plate",
		Category: "Appliances",
		Price:    models.NewMoneyFromDecimal(decimal.NewFromInt(25)),
		City:     "Boca Raton",
	})
	if err != nil {
		t.Fatalf("create listing failed: %v", err)
	}
	return listing
}

func TestCreateListingStartsPending(t *testing.T) {
	svc, _ := setupListingServiceTest(t)
	listing := createTestListing(t, svc, 7)

	if listing.Status != constants.ListingStatusPending {
		t.Fatalf("status want pending got %s", listing.Status)
	}
	if listing.Category != "appliances" {
		t.Fatalf("category should be lowercased, got %s", listing.Category)
	}
}

func TestPendingListingHiddenFromPublicList(t *testing.T) {
	svc, _ := setupListingServiceTest(t)
	createTestListing(t, svc, 7)

	listings, total, err := svc.ListListings(ListingListInput{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 0 || len(listings) != 0 {
		t.Fatalf("pending listing should be hidden from public, got %d", total)
	}

	listings, total, err = svc.ListListings(ListingListInput{Page: 1, PageSize: 10, IncludeAll: true})
	if err != nil {
		t.Fatalf("moderation list failed: %v", err)
	}
	if total != 1 || len(listings) != 1 {
		t.Fatalf("moderation list should see pending listing, got %d", total)
	}
}

func TestModerateApprovesOnlyPending(t *testing.T) {
	svc, _ := setupListingServiceTest(t)
	listing := createTestListing(t, svc, 7)

	approved, err := svc.Moderate(listing.ID, true)
	if err != nil {
		t.Fatalf("moderate approve failed: %v", err)
	}
	if approved.Status != constants.ListingStatusActive {
		t.Fatalf("status want active got %s", approved.Status)
	}

	if _, err := svc.Moderate(listing.ID, true); !errors.Is(err, ErrListingStateInvalid) {
		t.Fatalf("approving an active listing should fail with state error, got %v", err)
	}
}

func TestMarkSoldEnforcesOwnershipAndState(t *testing.T) {
	svc, _ := setupListingServiceTest(t)
	listing := createTestListing(t, svc, 7)

	if err := svc.MarkSold(listing.ID, 7); !errors.Is(err, ErrListingStateInvalid) {
		t.Fatalf("pending listing cannot be sold, got %v", err)
	}

	if _, err := svc.Moderate(listing.ID, true); err != nil {
		t.Fatalf("moderate approve failed: %v", err)
	}

	if err := svc.MarkSold(listing.ID, 99); !errors.Is(err, ErrListingNotOwner) {
		t.Fatalf("other seller must not mark sold, got %v", err)
	}
	if err := svc.MarkSold(listing.ID, 7); err != nil {
		t.Fatalf("mark sold failed: %v", err)
	}
	if err := svc.MarkSold(listing.ID, 7); !errors.Is(err, ErrListingStateInvalid) {
		t.Fatalf("double sell should fail with state error, got %v", err)
	}
}

func TestRemoveWithdrawsPendingAndActive(t *testing.T) {
	svc, _ := setupListingServiceTest(t)

	pending := createTestListing(t, svc, 3)
	if err := svc.Remove(pending.ID, 3); err != nil {
		t.Fatalf("remove pending failed: %v", err)
	}

	active := createTestListing(t, svc, 3)
	if _, err := svc.Moderate(active.ID, true); err != nil {
		t.Fatalf("moderate approve failed: %v", err)
	}
	if err := svc.Remove(active.ID, 3); err != nil {
		t.Fatalf("remove active failed: %v", err)
	}

	if _, err := svc.UpdateListing(active.ID, 3, ListingUpdateInput{}); !errors.Is(err, ErrListingStateInvalid) {
		t.Fatalf("removed listing should refuse updates, got %v", err)
	}
}
