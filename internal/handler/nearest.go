package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"motoshop-directory/internal/models"
	"motoshop-directory/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// NearestShopHandler handles nearest shop requests
type NearestShopHandler struct {
	service NearestShopService
}

// NearestShopService interface for dependency injection
type NearestShopService interface {
	FindNearest(context.Context, float64, float64) (*models.Shop, error)
}

// NewNearestShopHandler creates a new nearest shop handler
func NewNearestShopHandler(svc NearestShopService) *NearestShopHandler {
	return &NearestShopHandler{service: svc}
}

// Nearest handles GET /shops/nearest requests
//
//	@Summary	Closest shop to a point
//	@Param		lat	query	number	true	"latitude"
//	@Param		lon	query	number	true	"longitude"
//	@Success	200	{object}	models.Shop
//	@Failure	400	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Router		/shops/nearest [get]
func (h *NearestShopHandler) Nearest(c *gin.Context) {
	lat, msg := queryCoordinate(c, "lat")
	if msg == "" {
		var lon float64
		if lon, msg = queryCoordinate(c, "lon"); msg == "" {
			h.respondNearest(c, lat, lon)
			return
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func (h *NearestShopHandler) respondNearest(c *gin.Context, lat, lon float64) {
	shop, err := h.service.FindNearest(c.Request.Context(), lat, lon)
	switch {
	case errors.Is(err, service.ErrInvalidCoordinates):
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be within [-90, 90] and lon within [-180, 180]"})
	case err != nil:
		log.Error().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("failed to find nearest shop")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	case shop == nil:
		c.JSON(http.StatusNotFound, gin.H{"error": "no shop has known coordinates"})
	default:
		c.JSON(http.StatusOK, shop)
	}
}

// queryCoordinate reads a finite float query parameter. A non-empty message means the request is bad
func queryCoordinate(c *gin.Context, key string) (float64, string) {
	raw := c.Query(key)
	if raw == "" {
		return 0, "query parameters 'lat' and 'lon' are required to locate a shop"
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Sprintf("%s must be a finite number", key)
	}
	return v, ""
}
