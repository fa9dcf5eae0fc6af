package authz

// StaffScope is the restaurant scope carried by an admin session.
// Super admins have no scope restriction; restaurant staff are limited
// to the restaurant they belong to.
type StaffScope struct {
	AdminID      uint
	IsSuper      bool
	RestaurantID *uint
}

// CanAccessRestaurant reports whether the scope covers the given restaurant.
func (sc StaffScope) CanAccessRestaurant(restaurantID uint) bool {
	if sc.IsSuper {
		return true
	}
	return sc.RestaurantID != nil && *sc.RestaurantID == restaurantID
}

// CanRedeemSpecial reports whether the scope may redeem claims for a
// special belonging to the given restaurant.
func (sc StaffScope) CanRedeemSpecial(restaurantID uint) bool {
	return sc.CanAccessRestaurant(restaurantID)
}
