package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/models"
)

const activeSpecialsDefaultTTL = 60 * time.Second

// ActiveSpecialsPage is a cached page of the active-specials read aggregate.
// Correctness never depends on it; claim admission always reads the base
// tables.
type ActiveSpecialsPage struct {
	Specials  []models.Special `json:"specials"`
	Total     int64            `json:"total"`
	CachedAt  int64            `json:"cached_at"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	WindowKey string           `json:"window_key"`
}

func activeSpecialsKey(windowKey string, page, pageSize int) string {
	return fmt.Sprintf("specials:active:%s:%d:%d", windowKey, page, pageSize)
}

// GetActiveSpecials reads a cached page.
func (c *Cache) GetActiveSpecials(ctx context.Context, windowKey string, page, pageSize int) (*ActiveSpecialsPage, bool, error) {
	var cached ActiveSpecialsPage
	hit, err := c.GetJSON(ctx, activeSpecialsKey(windowKey, page, pageSize), &cached)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &cached, true, nil
}

// SetActiveSpecials writes a cached page.
func (c *Cache) SetActiveSpecials(ctx context.Context, windowKey string, page, pageSize int, specials []models.Special, total int64, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = activeSpecialsDefaultTTL
	}
	entry := ActiveSpecialsPage{
		Specials:  specials,
		Total:     total,
		CachedAt:  time.Now().Unix(),
		Page:      page,
		PageSize:  pageSize,
		WindowKey: windowKey,
	}
	return c.SetJSON(ctx, activeSpecialsKey(windowKey, page, pageSize), entry, ttl)
}
