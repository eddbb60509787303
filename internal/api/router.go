package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"probe-inventory-backend/config"
	"probe-inventory-backend/internal/backup"
	"probe-inventory-backend/internal/inventory"
	"probe-inventory-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, repo *inventory.Repository, db *gorm.DB, webpushOptions *webpush.Options, backups *backup.Service) *gin.Engine {
	r := gin.Default()

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	respCache := cache.New(cacheTTL, 2*cacheTTL)

	handler := NewHandler(repo, db, webpushOptions, backups, respCache)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	caching := mw.Cache(respCache, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/probes", handler.RegisterProbe)
		api.GET("/probes/:serial", handler.GetProbe)
		api.PUT("/probes/:serial/status", handler.UpdateStatus)
		api.POST("/probes/:serial/calibration", handler.ApplyCalibration)

		api.GET("/inventory", caching, handler.GetInventory)
		api.GET("/stats", caching, handler.GetStats)
		api.GET("/catalog", caching, handler.GetCatalog)
		api.GET("/calibration/ph-mv", handler.GetPHMV)

		api.GET("/health", handler.GetHealth)
		api.POST("/backup", handler.PostBackup)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
