package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"motoshop-directory/internal/models"
)

// DefaultFetchLimit caps how many shops are loaded into memory
const DefaultFetchLimit = 10000

// MaxRating is the highest rating a shop can have
const MaxRating = 5.0

// ErrInvalidFilter is returned for filters that can never match
var ErrInvalidFilter = errors.New("invalid filter")

// ShopRepository interface for dependency injection
type ShopRepository interface {
	ListShops(ctx context.Context, limit int) ([]models.Shop, error)
}

// Directory is the loaded shop list with derived data
type Directory struct {
	Shops  []models.Shop
	Cities []string
	Stats  models.Stats
}

// DirectoryService loads the shop list and filters it in memory
type DirectoryService struct {
	repo  ShopRepository
	limit int
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(repo ShopRepository, limit int) *DirectoryService {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	return &DirectoryService{repo: repo, limit: limit}
}

// Load fetches shops, best rated first, and derives the city list and stats
func (s *DirectoryService) Load(ctx context.Context) (*Directory, error) {
	shops, err := s.repo.ListShops(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list shops: %w", err)
	}
	if shops == nil {
		shops = []models.Shop{}
	}

	return &Directory{
		Shops:  shops,
		Cities: UniqueCities(shops),
		Stats:  ComputeStats(shops),
	}, nil
}

// Search loads the directory and returns the shops matching f along with the unfiltered total
func (s *DirectoryService) Search(ctx context.Context, f models.Filter) ([]models.Shop, int, error) {
	if f.MinRating < 0 || f.MinRating > MaxRating || math.IsNaN(f.MinRating) {
		return nil, 0, fmt.Errorf("service: %w: min rating %v outside [0, %v]", ErrInvalidFilter, f.MinRating, MaxRating)
	}

	dir, err := s.Load(ctx)
	if err != nil {
		return nil, 0, err
	}

	return Filter(dir.Shops, f), len(dir.Shops), nil
}

// Filter keeps the shops matching every active criterion, preserving order.
// Search is a case-insensitive substring match on name, address or city.
// City must match exactly. MinRating applies only when positive and excludes unrated shops
func Filter(shops []models.Shop, f models.Filter) []models.Shop {
	term := strings.ToLower(f.Search)

	filtered := make([]models.Shop, 0, len(shops))
	for _, shop := range shops {
		if term != "" && !containsFold(shop.Name, term) && !containsFold(shop.Address, term) && !containsFold(shop.City, term) {
			continue
		}
		if f.City != "" && (shop.City == nil || *shop.City != f.City) {
			continue
		}
		if f.MinRating > 0 && (shop.Rating == nil || *shop.Rating < f.MinRating) {
			continue
		}
		filtered = append(filtered, shop)
	}
	return filtered
}

func containsFold(field *string, lowerTerm string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), lowerTerm)
}

// UniqueCities returns the sorted distinct non-empty cities
func UniqueCities(shops []models.Shop) []string {
	seen := make(map[string]struct{})
	cities := []string{}
	for _, shop := range shops {
		if shop.City == nil || *shop.City == "" {
			continue
		}
		if _, ok := seen[*shop.City]; ok {
			continue
		}
		seen[*shop.City] = struct{}{}
		cities = append(cities, *shop.City)
	}
	sort.Strings(cities)
	return cities
}

// ComputeStats counts shops, averages non-null ratings to one decimal and sums reviews
func ComputeStats(shops []models.Shop) models.Stats {
	var (
		sum   float64
		rated int
		stats = models.Stats{Total: len(shops)}
	)
	for _, shop := range shops {
		if shop.Rating != nil {
			sum += *shop.Rating
			rated++
		}
		stats.TotalReviews += shop.ReviewsCount
	}
	if rated > 0 {
		stats.AvgRating = math.Round(sum/float64(rated)*10) / 10
	}
	return stats
}
