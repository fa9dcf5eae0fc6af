package main

import (
	"time"

	"github.com/jewgo-app/jewgo-api/internal/config"
	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/logger"
	"github.com/jewgo-app/jewgo-api/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	restaurants := []models.Restaurant{
		{
			Name:           "Grill Spot Boca",
			Slug:           "grill-spot-boca",
			Description:    "Glatt kosher grill with shawarma, burgers and Israeli salads.",
			Address:        "2200 Glades Rd",
			City:           "Boca Raton",
			State:          "FL",
			ZipCode:        "33431",
			Latitude:       26.3683,
			Longitude:      -80.1289,
			Phone:          "+1-561-555-0132",
			KosherCategory: constants.KosherCategoryMeat,
			CertifyingBody: "ORB",
			Status:         constants.RestaurantStatusApproved,
		},
		{
			Name:           "Cafe Shalom",
			Slug:           "cafe-shalom",
			Description:    "Dairy cafe, pizza and fresh pasta baked daily.",
			Address:        "801 N University Dr",
			City:           "Hollywood",
			State:          "FL",
			ZipCode:        "33024",
			Latitude:       26.0251,
			Longitude:      -80.2438,
			Phone:          "+1-954-555-0178",
			KosherCategory: constants.KosherCategoryDairy,
			CertifyingBody: "KM",
			Status:         constants.RestaurantStatusApproved,
		},
		{
			Name:           "Sabra Sushi House",
			Slug:           "sabra-sushi-house",
			Description:    "Pareve sushi bar and poke bowls.",
			Address:        "1790 NE Miami Gardens Dr",
			City:           "North Miami Beach",
			State:          "FL",
			ZipCode:        "33179",
			Latitude:       25.9334,
			Longitude:      -80.1625,
			Phone:          "+1-305-555-0109",
			KosherCategory: constants.KosherCategoryPareve,
			CertifyingBody: "Kosher Miami",
			Status:         constants.RestaurantStatusApproved,
		},
	}

	restaurantIDs := map[string]uint{}
	for _, restaurant := range restaurants {
		var existing models.Restaurant
		if err := models.DB.Where("slug = ?", restaurant.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&restaurant).Error; err != nil {
				stdLog.Printf("Failed to create restaurant %s: %v", restaurant.Slug, err)
				continue
			}
			stdLog.Printf("Created restaurant: %s", restaurant.Slug)
			restaurantIDs[restaurant.Slug] = restaurant.ID
		} else {
			stdLog.Printf("Restaurant already exists: %s", restaurant.Slug)
			restaurantIDs[restaurant.Slug] = existing.ID
		}
	}

	now := time.Now().UTC()
	weekAhead := now.Add(7 * 24 * time.Hour)
	monthAhead := now.Add(30 * 24 * time.Hour)
	lunchCap := 200
	specials := []models.Special{
		{
			RestaurantID:     restaurantIDs["grill-spot-boca"],
			Title:            "10% Off Lunch",
			Description:      "Ten percent off any lunch plate, Sunday through Thursday.",
			DiscountKind:     constants.DiscountKindPercentage,
			DiscountValue:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			DiscountLabel:    "10% off lunch",
			ValidFrom:        now,
			ValidUntil:       monthAhead,
			MaxClaimsTotal:   &lunchCap,
			MaxClaimsPerUser: 0,
			PerVisit:         true,
			IsActive:         true,
		},
		{
			RestaurantID:     restaurantIDs["cafe-shalom"],
			Title:            "$5 Off Family Pizza Night",
			Description:      "Five dollars off any two large pies.",
			DiscountKind:     constants.DiscountKindFixedAmount,
			DiscountValue:    models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
			DiscountLabel:    "$5 off two large pies",
			ValidFrom:        now,
			ValidUntil:       weekAhead,
			MaxClaimsPerUser: 2,
			RequiresCode:     true,
			IsActive:         true,
		},
		{
			RestaurantID:     restaurantIDs["sabra-sushi-house"],
			Title:            "Free Miso Soup",
			Description:      "Complimentary miso soup with any roll combo.",
			DiscountKind:     constants.DiscountKindOther,
			DiscountLabel:    "free miso soup with combo",
			ValidFrom:        now,
			ValidUntil:       weekAhead,
			MaxClaimsPerUser: 1,
			IsActive:         true,
		},
	}

	for _, special := range specials {
		if special.RestaurantID == 0 {
			continue
		}
		var existing models.Special
		if err := models.DB.Where("restaurant_id = ? AND title = ?", special.RestaurantID, special.Title).First(&existing).Error; err != nil {
			if err := models.DB.Create(&special).Error; err != nil {
				stdLog.Printf("Failed to create special %q: %v", special.Title, err)
			} else {
				stdLog.Printf("Created special: %s", special.Title)
			}
		} else {
			stdLog.Printf("Special already exists: %s", special.Title)
		}
	}

	stdLog.Printf("Seed finished")
}
