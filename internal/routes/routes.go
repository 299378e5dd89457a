package routes

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"bundle-admin/internal/cache"
	"bundle-admin/internal/catalog"
	"bundle-admin/internal/config"
	"bundle-admin/internal/evaluator"
	"bundle-admin/internal/handlers"
	"bundle-admin/internal/repository"
)

func RegisterRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config) {
	bundles := db.Collection("bundles")
	repo := repository.NewBundleRepository(bundles)
	variants := cache.NewVariantStore()
	cat := catalog.NewClient(cfg.CatalogURL, cfg.CatalogToken)
	eval := evaluator.NewClient(cfg.EvaluatorURL, cfg.EvaluatorToken)
	h := handlers.NewBundleHandler(repo, variants, cat, eval)

	v1 := router.Group("/v1")
	v1.Use(bearerAuth(cfg.AdminToken))
	{
		v1.GET("/bundles", h.ListBundles)
		v1.POST("/bundles", h.CreateBundle)
		v1.GET("/bundles/stats", h.Stats)
		v1.POST("/bundles/evaluate", h.EvaluateCart)
		v1.POST("/bundles/cart-banner", h.CartBanner)
		v1.GET("/bundles/:id", h.GetBundle)
		v1.PATCH("/bundles/:id", h.UpdateBundle)
		v1.DELETE("/bundles/:id", h.DeleteBundle)
		v1.POST("/bundles/:id/duplicate", h.DuplicateBundle)
		v1.GET("/products/:id", h.GetProduct)
	}
}

// bearerAuth exige la credencial bearer de la superficie admin. Sin token
// configurado la verificación se desactiva (desarrollo local)
func bearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		provided := strings.TrimPrefix(header, "Bearer ")
		if header == provided || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
