package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFixture() *fixtureFile {
	price := int64(24999)
	return &fixtureFile{Products: []product{
		{ASIN: "B0DRILLKIT", Title: "Drill Kit", PricePence: &price},
		{ASIN: "B0BARETOOL", Title: "Bare Tool"},
	}}
}

func TestSnapshotsHandler_FiltersByASIN(t *testing.T) {
	t.Parallel()

	handler := snapshotsHandler(quietLogger(), testFixture())

	req := httptest.NewRequest(http.MethodGet, "/?asins=B0DRILLKIT,B0UNKNOWN1", http.NoBody)
	req.Header.Set("X-Api-Key", "test-key")
	rec := httptest.NewRecorder()

	handler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Products []product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "B0DRILLKIT", resp.Products[0].ASIN)
}

func TestSnapshotsHandler_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	handler := snapshotsHandler(quietLogger(), testFixture())

	req := httptest.NewRequest(http.MethodGet, "/?asins=B0DRILLKIT", http.NoBody)
	rec := httptest.NewRecorder()

	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoadFixture(t *testing.T) {
	t.Parallel()

	fixture, err := loadFixture("testdata/products.json")
	require.NoError(t, err)
	assert.Len(t, fixture.Products, 3)
	assert.Equal(t, "B0DRILLKIT", fixture.Products[0].ASIN)
}
