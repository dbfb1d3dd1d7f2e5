package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"motoshop-directory/internal/models"
)

// ErrInvalidCoordinates is returned for latitude/longitude outside their ranges
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// NearestShopRepository interface for dependency injection
type NearestShopRepository interface {
	FindNearestShop(ctx context.Context, lat, lon float64) (*models.Shop, error)
}

// NearestShopService finds the shop closest to a point
type NearestShopService struct {
	repo NearestShopRepository
}

// NewNearestShopService creates a new nearest shop service
func NewNearestShopService(repo NearestShopRepository) *NearestShopService {
	return &NearestShopService{repo: repo}
}

// FindNearest returns the closest shop with coordinates, or nil when there is none
func (s *NearestShopService) FindNearest(ctx context.Context, lat, lon float64) (*models.Shop, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("service: %w: latitude %f", ErrInvalidCoordinates, lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("service: %w: longitude %f", ErrInvalidCoordinates, lon)
	}

	shop, err := s.repo.FindNearestShop(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find nearest shop: %w", err)
	}

	return shop, nil
}
