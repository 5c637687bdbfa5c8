package service

import (
	"context"
	"strings"

	"qrmenu/internal/apperr"
	"qrmenu/menu-svc/internal/domain"

	"go.uber.org/zap"
)

type RestaurantService struct {
	repo   RestaurantRepository
	cache  MenuCache
	qr     QRGenerator
	logger *zap.Logger
}

func NewRestaurantService(repo RestaurantRepository, cache MenuCache, qr QRGenerator, logger *zap.Logger) *RestaurantService {
	return &RestaurantService{repo: repo, cache: cache, qr: qr, logger: logger}
}

func (s *RestaurantService) Get(ctx context.Context, id int) (*domain.Restaurant, error) {
	return s.repo.GetRestaurant(ctx, id)
}

func (s *RestaurantService) Update(ctx context.Context, id int, upd domain.RestaurantUpdate) (*domain.Restaurant, error) {
	rest, err := s.repo.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		rest.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Phone != nil {
		rest.Phone = *upd.Phone
	}
	if upd.Address != nil {
		rest.Address = *upd.Address
	}
	if upd.Description != nil {
		rest.Description = *upd.Description
	}
	if upd.Logo != nil {
		rest.Logo = *upd.Logo
	}
	if rest.Name == "" {
		return nil, apperr.Validation("restaurant name is required")
	}
	if err := s.repo.UpdateRestaurant(ctx, rest); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return rest, nil
}

func (s *RestaurantService) UpdateLogo(ctx context.Context, id int, logo string) error {
	if err := s.repo.UpdateRestaurantLogo(ctx, id, logo); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// QRCode returns the stored PNG, regenerating and storing it when missing.
func (s *RestaurantService) QRCode(ctx context.Context, id int) ([]byte, error) {
	qr, err := s.repo.GetQRCode(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(qr) > 0 || s.qr == nil {
		return qr, nil
	}
	regenerated, err := s.qr.Generate(id)
	if err != nil {
		return nil, apperr.Storage(err, "generate qr code")
	}
	if err := s.repo.SaveQRCode(ctx, id, regenerated); err != nil {
		s.logger.Warn("failed to cache regenerated qr code", zap.Int("restaurant_id", id), zap.Error(err))
	}
	return regenerated, nil
}

func (s *RestaurantService) invalidate(ctx context.Context, id int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePublicMenu(ctx, id); err != nil {
		s.logger.Warn("public menu cache invalidation failed", zap.Int("restaurant_id", id), zap.Error(err))
	}
}
