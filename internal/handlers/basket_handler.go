package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-admin/internal/basket"
	"github.com/imrishuroy/storefront-admin/internal/catalog"
	"github.com/imrishuroy/storefront-admin/internal/validation"
)

// RegisterBasketRoutes registers wishlist and cart routes.
func RegisterBasketRoutes(r *gin.Engine, cfg HandlerConfig) {
	if cfg.Baskets == nil {
		return
	}
	v := validation.New()
	g := r.Group("/baskets/:kind/:client", func(c *gin.Context) {
		kind, err := basket.ParseKind(c.Param("kind"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown_basket"})
			return
		}
		c.Set("basket_kind", kind)
		c.Next()
	})
	kindOf := func(c *gin.Context) basket.Kind { return c.MustGet("basket_kind").(basket.Kind) }

	g.GET("", func(c *gin.Context) {
		list, err := cfg.Baskets.List(c.Request.Context(), kindOf(c), c.Param("client"))
		if err != nil {
			zap.L().Error("basket list failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "basket_unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": list})
	})

	g.POST("", func(c *gin.Context) {
		var p catalog.Product
		if err := validation.BindAndValidate(c, &p, v); err != nil {
			return
		}
		added, err := cfg.Baskets.Add(c.Request.Context(), kindOf(c), c.Param("client"), p)
		if err != nil {
			zap.L().Error("basket add failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "basket_unavailable"})
			return
		}
		if !added {
			c.JSON(http.StatusOK, gin.H{"added": false, "message": p.Title + " is already in your " + string(kindOf(c)) + "."})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"added": true, "message": p.Title + " has been added to your " + string(kindOf(c)) + "!"})
	})

	g.DELETE("/:productID", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("productID"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_product_id"})
			return
		}
		removed, err := cfg.Baskets.Remove(c.Request.Context(), kindOf(c), c.Param("client"), id)
		if err != nil {
			zap.L().Error("basket remove failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "basket_unavailable"})
			return
		}
		if !removed {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_in_basket"})
			return
		}
		c.Status(http.StatusNoContent)
	})
}
