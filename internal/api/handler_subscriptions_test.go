package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"probe-inventory-backend/internal/model"
)

func setupSubscriptionRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:subsHandler?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PushSubscription{}))

	handler := NewHandler(nil, db, nil, nil, nil)
	r := gin.New()
	r.GET("/api/subscriptions", handler.GetSubscription)
	r.PUT("/api/subscriptions", handler.PutSubscription)
	r.DELETE("/api/subscriptions", handler.DeleteSubscription)
	return r
}

func TestPutSubscriptionInvalid(t *testing.T) {
	router := setupSubscriptionRouter(t)

	w := doJSON(router, "PUT", "/api/subscriptions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())

	w = doJSON(router, "PUT", "/api/subscriptions", `{
		"endpoint": "https://push/x", "p256dh": "k", "auth": "a",
		"probe_types": ["Sonic Probe"]
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionRoundTrip(t *testing.T) {
	router := setupSubscriptionRouter(t)

	w := doJSON(router, "PUT", "/api/subscriptions", `{
		"endpoint": "https://push/rt", "p256dh": "k", "auth": "a",
		"probe_types": ["pH Probe", "DO Probe"]
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "GET", "/api/subscriptions?endpoint=https%3A%2F%2Fpush%2Frt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"probe_types": ["pH Probe", "DO Probe"]}`, w.Body.String())

	w = doJSON(router, "DELETE", "/api/subscriptions", `{"endpoint": "https://push/rt"}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, "GET", "/api/subscriptions?endpoint=https%3A%2F%2Fpush%2Frt", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
