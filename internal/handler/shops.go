package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"motoshop-directory/internal/models"
	"motoshop-directory/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ShopHandler serves the shop directory
type ShopHandler struct {
	service DirectoryService
}

// DirectoryService interface for dependency injection
type DirectoryService interface {
	Load(ctx context.Context) (*service.Directory, error)
	Search(ctx context.Context, f models.Filter) ([]models.Shop, int, error)
}

// ShopListResponse is the body of GET /shops
type ShopListResponse struct {
	Total int           `json:"total"`
	Count int           `json:"count"`
	Shops []models.Shop `json:"shops"`
}

// NewShopHandler creates a new shop handler
func NewShopHandler(svc DirectoryService) *ShopHandler {
	return &ShopHandler{service: svc}
}

// List handles GET /shops requests
//
//	@Summary	List shops
//	@Param		q			query	string	false	"free-text search over name, address and city"
//	@Param		city		query	string	false	"exact city"
//	@Param		min_rating	query	number	false	"minimum rating, 0 disables"
//	@Success	200			{object}	ShopListResponse
//	@Router		/shops [get]
func (h *ShopHandler) List(c *gin.Context) {
	filter := models.Filter{
		Search: c.Query("q"),
		City:   c.Query("city"),
	}

	if raw := c.Query("min_rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_rating format"})
			return
		}
		filter.MinRating = minRating
	}

	shops, total, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_rating must be between 0 and 5"})
			return
		}
		log.Error().Err(err).Msg("failed to list shops")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ShopListResponse{Total: total, Count: len(shops), Shops: shops})
}

// Stats handles GET /shops/stats requests
//
//	@Summary	Directory statistics
//	@Success	200	{object}	models.Stats
//	@Router		/shops/stats [get]
func (h *ShopHandler) Stats(c *gin.Context) {
	dir, err := h.service.Load(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, dir.Stats)
}

// Cities handles GET /shops/cities requests
//
//	@Summary	Sorted list of cities with at least one shop
//	@Success	200	{array}	string
//	@Router		/shops/cities [get]
func (h *ShopHandler) Cities(c *gin.Context) {
	dir, err := h.service.Load(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load cities")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, dir.Cities)
}
