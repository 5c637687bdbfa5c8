package service

import (
	"context"
	"errors"
	"time"

	"qrmenu/internal/apperr"
	"qrmenu/internal/menu"
	"qrmenu/menu-svc/internal/domain"

	"go.uber.org/zap"
)

const maxSaveAttempts = 3

type MenuService struct {
	menus       MenuRepository
	restaurants RestaurantRepository
	cache       MenuCache
	logger      *zap.Logger
	sandbox     bool
	now         func() time.Time
}

func NewMenuService(menus MenuRepository, restaurants RestaurantRepository, cache MenuCache, logger *zap.Logger, sandbox bool) *MenuService {
	return &MenuService{
		menus:       menus,
		restaurants: restaurants,
		cache:       cache,
		logger:      logger,
		sandbox:     sandbox,
		now:         time.Now,
	}
}

// mutate loads the current document, applies fn to a copy and saves it on the
// loaded version. A lost race re-runs the whole cycle on fresh state. The
// caller only ever sees a document that was actually stored.
func (s *MenuService) mutate(ctx context.Context, restaurantID int, create bool, fn func(m *menu.Menu) error) (*menu.Menu, error) {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		current, err := s.menus.GetMenu(ctx, restaurantID)
		isNew := false
		switch {
		case err == nil:
		case create && apperr.Is(err, apperr.KindNotFound):
			if _, err := s.restaurants.GetRestaurant(ctx, restaurantID); err != nil {
				return nil, err
			}
			current = menu.New(restaurantID, s.now())
			isNew = true
		case apperr.Is(err, apperr.KindNotFound):
			return nil, apperr.NotFound("menu for restaurant %d not found", restaurantID)
		default:
			return nil, err
		}

		next := current.Clone()
		next.Normalize()
		if err := fn(next); err != nil {
			return nil, err
		}
		next.Normalize()
		next.Touch(s.now())

		if isNew {
			err = s.menus.CreateMenu(ctx, next)
		} else {
			err = s.menus.SaveMenu(ctx, next, current.Version)
		}
		if errors.Is(err, domain.ErrVersionConflict) {
			s.logger.Warn("menu save lost a race, retrying",
				zap.Int("restaurant_id", restaurantID), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		s.invalidate(ctx, restaurantID)
		return next, nil
	}
	return nil, apperr.Conflict("menu for restaurant %d is being modified concurrently, retry", restaurantID)
}

func (s *MenuService) invalidate(ctx context.Context, restaurantID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePublicMenu(ctx, restaurantID); err != nil {
		s.logger.Warn("public menu cache invalidation failed", zap.Int("restaurant_id", restaurantID), zap.Error(err))
	}
}

func (s *MenuService) AddCategory(ctx context.Context, restaurantID int, p menu.CategoryPatch) (*menu.Category, error) {
	var id string
	saved, err := s.mutate(ctx, restaurantID, true, func(m *menu.Menu) error {
		c := menu.NewCategory(p)
		if err := c.Validate(); err != nil {
			return err
		}
		id = m.AppendCategory(c).ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("category added", zap.Int("restaurant_id", restaurantID), zap.String("category_id", id))
	return saved.Category(id)
}

func (s *MenuService) UpdateCategory(ctx context.Context, restaurantID int, categoryID string, p menu.CategoryPatch) (*menu.Category, error) {
	saved, err := s.mutate(ctx, restaurantID, false, func(m *menu.Menu) error {
		_, err := p.Apply(m, categoryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved.Category(categoryID)
}

func (s *MenuService) DeleteCategory(ctx context.Context, restaurantID int, categoryID string) error {
	_, err := s.mutate(ctx, restaurantID, false, func(m *menu.Menu) error {
		return m.RemoveCategory(categoryID)
	})
	if err == nil {
		s.logger.Info("category deleted", zap.Int("restaurant_id", restaurantID), zap.String("category_id", categoryID))
	}
	return err
}

func (s *MenuService) AddItem(ctx context.Context, restaurantID int, categoryID string, p menu.ItemPatch) (*menu.Item, error) {
	items, err := s.AddItems(ctx, restaurantID, categoryID, []menu.ItemPatch{p})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *MenuService) UpdateItem(ctx context.Context, restaurantID int, categoryID, itemID string, p menu.ItemPatch) (*menu.Item, error) {
	saved, err := s.mutate(ctx, restaurantID, false, func(m *menu.Menu) error {
		c, err := m.Category(categoryID)
		if err != nil {
			return err
		}
		_, err = p.Apply(c, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	c, err := saved.Category(categoryID)
	if err != nil {
		return nil, err
	}
	return c.Item(itemID)
}

func (s *MenuService) DeleteItem(ctx context.Context, restaurantID int, categoryID, itemID string) error {
	_, err := s.mutate(ctx, restaurantID, false, func(m *menu.Menu) error {
		c, err := m.Category(categoryID)
		if err != nil {
			return err
		}
		return c.RemoveItem(itemID)
	})
	return err
}

// AddItems appends the items in submission order. Nothing is stored unless
// every item is valid.
func (s *MenuService) AddItems(ctx context.Context, restaurantID int, categoryID string, patches []menu.ItemPatch) ([]menu.Item, error) {
	if len(patches) == 0 {
		return nil, apperr.Validation("at least one item is required")
	}
	items := make([]menu.Item, 0, len(patches))
	for i, p := range patches {
		it := menu.NewItem(p)
		if err := it.Validate(); err != nil {
			return nil, apperr.Validation("item %d: %v", i, err)
		}
		items = append(items, it)
	}

	ids := make([]string, 0, len(items))
	saved, err := s.mutate(ctx, restaurantID, false, func(m *menu.Menu) error {
		ids = ids[:0]
		c, err := m.Category(categoryID)
		if err != nil {
			return err
		}
		for _, it := range items {
			ids = append(ids, c.AppendItem(it).ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c, err := saved.Category(categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]menu.Item, 0, len(ids))
	for _, id := range ids {
		it, err := c.Item(id)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	s.logger.Info("items added", zap.Int("restaurant_id", restaurantID), zap.String("category_id", categoryID), zap.Int("count", len(out)))
	return out, nil
}

// RepositionItems applies the moves in order; each move puts its item at the
// requested index of the category as it stands after the previous moves.
func (s *MenuService) RepositionItems(ctx context.Context, restaurantID int, categoryID string, moves []domain.Reposition) (*menu.Category, error) {
	if len(moves) == 0 {
		return nil, apperr.Validation("at least one reposition is required")
	}
	saved, err := s.mutate(ctx, restaurantID, false, func(m *menu.Menu) error {
		c, err := m.Category(categoryID)
		if err != nil {
			return err
		}
		for _, mv := range moves {
			if err := c.MoveItem(mv.ItemID, mv.Position); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved.Category(categoryID)
}

func (s *MenuService) GetMenu(ctx context.Context, restaurantID int) (*menu.Menu, error) {
	m, err := s.menus.GetMenu(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	m.Normalize()
	return m, nil
}

func (s *MenuService) PublicMenu(ctx context.Context, restaurantID int) (*domain.PublicMenu, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetPublicMenu(ctx, restaurantID)
		if err != nil {
			s.logger.Warn("public menu cache read failed", zap.Int("restaurant_id", restaurantID), zap.Error(err))
		}
		if ok {
			return cached, nil
		}
	}

	pm, err := s.loadPublicMenu(ctx, restaurantID)
	if err != nil {
		if s.sandbox && (apperr.Is(err, apperr.KindNotFound) || apperr.Is(err, apperr.KindStorage)) {
			s.logger.Warn("serving demo menu", zap.Int("restaurant_id", restaurantID), zap.Error(err))
			return DemoPublicMenu(restaurantID, s.now()), nil
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetPublicMenu(ctx, restaurantID, pm); err != nil {
			s.logger.Warn("public menu cache write failed", zap.Int("restaurant_id", restaurantID), zap.Error(err))
		}
	}
	return pm, nil
}

func (s *MenuService) loadPublicMenu(ctx context.Context, restaurantID int) (*domain.PublicMenu, error) {
	rest, err := s.restaurants.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	m, err := s.menus.GetMenu(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	return &domain.PublicMenu{Restaurant: rest.Public(), Menu: m.Public()}, nil
}
