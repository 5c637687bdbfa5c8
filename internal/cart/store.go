package cart

import (
	"context"
	"strings"
	"time"

	"qrmenu/internal/apperr"

	"go.uber.org/zap"
)

// Persister stores the cart lines and the pending customer record separately.
// A missing entry loads as nil without error.
type Persister interface {
	LoadCart(ctx context.Context, sessionID string) (*Cart, error)
	SaveCart(ctx context.Context, c *Cart) error
	LoadCustomer(ctx context.Context, sessionID string) (*Customer, error)
	SaveCustomer(ctx context.Context, sessionID string, customer *Customer) error
}

// Store applies cart rules and writes through to the persister. Saving is
// best effort: failures are logged and the in-memory result is still returned.
type Store struct {
	persister Persister
	logger    *zap.Logger
	now       func() time.Time
}

func NewStore(persister Persister, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{persister: persister, logger: logger, now: time.Now}
}

func validSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return apperr.Validation("session id is required")
	}
	return nil
}

// Load rehydrates a cart. A read failure is a storage error so that no
// mutation is ever applied to, and saved over, a cart that failed to load.
func (s *Store) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}
	c, err := s.persister.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, apperr.Storage(err, "load cart %s", sessionID)
	}
	if c == nil {
		c = Empty(sessionID)
	}
	if c.Lines == nil {
		c.Lines = []Line{}
	}
	customer, err := s.persister.LoadCustomer(ctx, sessionID)
	if err != nil {
		return nil, apperr.Storage(err, "load cart customer %s", sessionID)
	}
	c.Customer = customer
	return c, nil
}

// Peek is Load for read-only callers: unreadable state degrades to an empty
// cart, which is never persisted.
func (s *Store) Peek(ctx context.Context, sessionID string) (*Cart, error) {
	c, err := s.Load(ctx, sessionID)
	if apperr.Is(err, apperr.KindStorage) {
		s.logger.Warn("cart load failed, serving empty cart", zap.String("session_id", sessionID), zap.Error(err))
		return Empty(sessionID), nil
	}
	return c, err
}

func (s *Store) persist(ctx context.Context, c *Cart) {
	c.UpdatedAt = s.now()
	if err := s.persister.SaveCart(ctx, c); err != nil {
		s.logger.Warn("cart save failed", zap.String("session_id", c.SessionID), zap.Error(err))
	}
	if err := s.persister.SaveCustomer(ctx, c.SessionID, c.Customer); err != nil {
		s.logger.Warn("cart customer save failed", zap.String("session_id", c.SessionID), zap.Error(err))
	}
}

func (s *Store) mutate(ctx context.Context, sessionID string, fn func(c *Cart) error) (*Cart, error) {
	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	s.persist(ctx, c)
	return c, nil
}

// AddItem adds one unit. A cart belongs to one restaurant; adding an item from
// another restaurant starts over.
func (s *Store) AddItem(ctx context.Context, sessionID string, restaurantID int, item Snapshot) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		if restaurantID > 0 && c.RestaurantID != restaurantID {
			c.Clear()
			c.RestaurantID = restaurantID
		}
		_, err := c.Add(item)
		return err
	})
}

func (s *Store) IncreaseQuantity(ctx context.Context, sessionID, lineID string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error { return c.Increase(lineID) })
}

func (s *Store) DecreaseQuantity(ctx context.Context, sessionID, lineID string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error { return c.Decrease(lineID) })
}

func (s *Store) RemoveLine(ctx context.Context, sessionID, lineID string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.Remove(lineID)
		return nil
	})
}

func (s *Store) Clear(ctx context.Context, sessionID string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.Clear()
		return nil
	})
}

func (s *Store) SetCustomer(ctx context.Context, sessionID string, customer Customer) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		customer.Name = strings.TrimSpace(customer.Name)
		customer.Phone = strings.TrimSpace(customer.Phone)
		c.Customer = &customer
		return nil
	})
}
