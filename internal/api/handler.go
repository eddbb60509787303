package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"probe-inventory-backend/internal/backup"
	"probe-inventory-backend/internal/inventory"
	"probe-inventory-backend/internal/mw"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	repo      *inventory.Repository
	db        *gorm.DB
	webpush   *webpush.Options
	backups   *backup.Service
	respCache *cache.Cache
}

// NewHandler creates a new API handler.
func NewHandler(repo *inventory.Repository, db *gorm.DB, webpushOptions *webpush.Options, backups *backup.Service, respCache *cache.Cache) *Handler {
	return &Handler{
		repo:      repo,
		db:        db,
		webpush:   webpushOptions,
		backups:   backups,
		respCache: respCache,
	}
}

// invalidateCache drops cached read responses after a mutation.
func (h *Handler) invalidateCache() {
	if h.respCache != nil {
		mw.Invalidate(h.respCache)
	}
}

// renderError maps repository errors onto HTTP responses. Every failure
// carries enough context for the UI to render an actionable message,
// and the save-and-restore-both-failed case is flagged as critical so
// the caller can escalate instead of silently continuing.
func renderError(c *gin.Context, err error) {
	var (
		validationErr *inventory.ValidationError
		notFoundErr   *inventory.NotFoundError
		transitionErr *inventory.IllegalTransitionError
		criticalErr   *inventory.CriticalError
		persistErr    *inventory.PersistError
		connErr       *inventory.ConnectionError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "validation failed",
			"violations": validationErr.Violations,
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": transitionErr.Error(),
			"from":  string(transitionErr.From),
			"to":    string(transitionErr.To),
		})
	case errors.As(err, &criticalErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    criticalErr.Error(),
			"critical": true,
		})
	case errors.As(err, &persistErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": persistErr.Error()})
	case errors.As(err, &connErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": connErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
