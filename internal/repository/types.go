package repository

import "time"

// SpecialListFilter filters special listings.
type SpecialListFilter struct {
	Page         int
	PageSize     int
	RestaurantID uint
	IsActive     *bool
	PerVisit     *bool
	Search       string
	// ActiveFrom/ActiveUntil select specials whose validity window overlaps
	// [ActiveFrom, ActiveUntil].
	ActiveFrom  *time.Time
	ActiveUntil *time.Time
}

// ClaimListFilter filters claim listings.
type ClaimListFilter struct {
	Page           int
	PageSize       int
	SpecialID      uint
	UserID         uint
	GuestSessionID string
	Status         string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

// RestaurantListFilter filters restaurant listings.
type RestaurantListFilter struct {
	Page           int
	PageSize       int
	Search         string
	City           string
	State          string
	KosherCategory string
	CertifyingBody string
	Status         string
	OnlyApproved   bool
}

// ListingListFilter filters marketplace listings.
type ListingListFilter struct {
	Page       int
	PageSize   int
	SellerID   uint
	Category   string
	City       string
	Search     string
	Status     string
	OnlyActive bool
}

// SpecialEventListFilter filters analytics events.
type SpecialEventListFilter struct {
	Page      int
	PageSize  int
	SpecialID uint
	EventType string
	From      *time.Time
	To        *time.Time
}

// UserListFilter filters user listings.
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
