package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"qrmenu/internal/apperr"
	"qrmenu/internal/menu"
	"qrmenu/internal/pgerr"
)

// CatalogReader reads the menu documents menu-svc maintains.
type CatalogReader struct {
	DB *sql.DB
}

func NewCatalogReader(db *sql.DB) *CatalogReader {
	return &CatalogReader{DB: db}
}

func (c *CatalogReader) RestaurantExists(ctx context.Context, restaurantID int) (bool, error) {
	var exists bool
	err := c.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = $1)", restaurantID).Scan(&exists)
	if err != nil {
		return false, apperr.Storage(err, "check restaurant %d", restaurantID)
	}
	return exists, nil
}

func (c *CatalogReader) GetMenu(ctx context.Context, restaurantID int) (*menu.Menu, error) {
	var (
		document  []byte
		version   int
		updatedAt time.Time
	)
	err := c.DB.QueryRowContext(ctx,
		"SELECT document, version, updated_at FROM menus WHERE restaurant_id = $1", restaurantID,
	).Scan(&document, &version, &updatedAt)
	if pgerr.NoRows(err) {
		return nil, apperr.NotFound("menu for restaurant %d not found", restaurantID)
	}
	if err != nil {
		return nil, apperr.Storage(err, "get menu")
	}
	m := menu.New(restaurantID, updatedAt)
	if err := json.Unmarshal(document, &m.Categories); err != nil {
		return nil, apperr.Storage(err, "decode menu document for restaurant %d", restaurantID)
	}
	m.Version = version
	return m, nil
}
