package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-admin/internal/catalog"
	"github.com/imrishuroy/storefront-admin/internal/validation"
)

// RegisterCatalogRoutes registers the product listing proxy.
func RegisterCatalogRoutes(r *gin.Engine, cfg HandlerConfig) {
	if cfg.Catalog == nil {
		return
	}
	v := validation.New()

	r.GET("/products", func(c *gin.Context) {
		var q validation.ProductsQuery
		if err := validation.BindQueryAndValidate(c, &q, v); err != nil {
			return
		}
		products, err := cfg.Catalog.Products(c.Request.Context(), q.Category)
		if err != nil {
			zap.L().Error("catalog products failed", zap.String("category", q.Category), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog_unavailable"})
			return
		}
		page, more := catalog.Page(products, q.Visible)
		resp := gin.H{
			"products": page,
			"total":    len(products),
			"has_more": more,
		}
		if more {
			resp["next_visible"] = len(page) + catalog.PageStep
		}
		c.JSON(http.StatusOK, resp)
	})

	r.GET("/categories", func(c *gin.Context) {
		cats, err := cfg.Catalog.Categories(c.Request.Context())
		if err != nil {
			zap.L().Error("catalog categories failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog_unavailable"})
			return
		}
		all := catalog.Category{Slug: catalog.AllCategories, Name: catalog.AllCategories}
		c.JSON(http.StatusOK, gin.H{"categories": append([]catalog.Category{all}, cats...)})
	})
}
