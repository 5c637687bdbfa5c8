package service

import (
	"context"

	"qrmenu/internal/apperr"
	"qrmenu/internal/menu"

	"go.uber.org/zap"
)

// restaurantMenu loads the menu that prices a restaurant's items. A nil menu
// with a nil error means the restaurant is unknown in sandbox mode and the
// client's snapshots are trusted.
func restaurantMenu(ctx context.Context, catalog Catalog, sandbox bool, logger *zap.Logger, restaurantID int) (*menu.Menu, error) {
	exists, err := catalog.RestaurantExists(ctx, restaurantID)
	if err != nil {
		if !sandbox {
			return nil, err
		}
		logger.Warn("catalog unavailable, trusting client items", zap.Int("restaurant_id", restaurantID), zap.Error(err))
		return nil, nil
	}
	if !exists {
		if !sandbox {
			return nil, apperr.NotFound("restaurant %d not found", restaurantID)
		}
		logger.Warn("unknown restaurant, trusting client items", zap.Int("restaurant_id", restaurantID))
		return nil, nil
	}

	m, err := catalog.GetMenu(ctx, restaurantID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Validation("restaurant %d has no menu", restaurantID)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// orderableItem returns the catalog item if it exists and can be ordered.
func orderableItem(m *menu.Menu, itemID string) (menu.Item, error) {
	it, c, ok := m.FindItem(itemID)
	if !ok {
		return menu.Item{}, apperr.Validation("menu item %s not found", itemID)
	}
	if !it.IsAvailable || !c.IsAvailable {
		return menu.Item{}, apperr.Validation("%s is currently unavailable", it.Name)
	}
	return it, nil
}
