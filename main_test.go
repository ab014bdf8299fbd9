package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"florist/internal/config"
	"florist/pkg/database"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("JWT_SECRET", "test_jwt_secret")
	v.Set("DATABASE_DSN", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	v.Set("LOG_LEVEL", "silent")
	cfg := config.FromViper(v)
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestApplication(t *testing.T) *application {
	t.Helper()
	cfg := testConfig(t)
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.LogLevel)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	a, err := newApplication(cfg, db)
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a
}

func TestHealthCheck(t *testing.T) {
	a := newTestApplication(t)
	app := buildApp(a)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disabled", body["rabbitmq"])
	assert.Equal(t, "disabled", body["nats"])
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	a := newTestApplication(t)

	require.NoError(t, seedCatalog(a.products))
	require.NoError(t, seedCatalog(a.products))

	products, err := a.products.GetAll()
	require.NoError(t, err)
	assert.Len(t, products, 6)
	assert.NoError(t, a.startConsumers())
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app := buildApp(newTestApplication(t))

	for _, path := range []string{"/api/v1/products", "/api/v1/cart", "/api/v1/orders", "/api/v1/notifications"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}
}
