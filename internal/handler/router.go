package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register mounts the health check and the shop routes. Nil handlers are skipped
func Register(r gin.IRouter, shops *ShopHandler, nearest *NearestShopHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	group := r.Group("/shops")
	if shops != nil {
		group.GET("", shops.List)
		group.GET("/stats", shops.Stats)
		group.GET("/cities", shops.Cities)
	}
	if nearest != nil {
		group.GET("/nearest", nearest.Nearest)
	}
}
