package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/resellkit/listing-scout/internal/api/handlers"
	storeMocks "github.com/resellkit/listing-scout/internal/store/mocks"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

func TestMappings_Upsert(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.On("UpsertListingMapping", mock.Anything, mock.MatchedBy(func(m *domain.ListingMapping) bool {
		return m.ASIN == "B0DRILLKIT" && m.BomID == "bom-1" && m.FeeOverridePercent == nil
	})).Return(nil).Once()

	_, api := humatest.New(t)
	handlers.RegisterMappingRoutes(api, handlers.NewMappingsHandler(mockStore))

	resp := api.Put("/api/v1/mappings",
		strings.NewReader(`{"asin":"b0drillkit","bom_id":"bom-1"}`))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"saved"`)
}

func TestMappings_UpsertWithFeeOverride(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.On("UpsertListingMapping", mock.Anything, mock.MatchedBy(func(m *domain.ListingMapping) bool {
		return m.FeeOverridePercent != nil && *m.FeeOverridePercent == 8.0
	})).Return(nil).Once()

	_, api := humatest.New(t)
	handlers.RegisterMappingRoutes(api, handlers.NewMappingsHandler(mockStore))

	resp := api.Put("/api/v1/mappings",
		strings.NewReader(`{"asin":"B0DRILLKIT","bom_id":"bom-1","fee_override_percent":8}`))
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestMappings_Get(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.On("GetListingMappings", mock.Anything, []string{"B0DRILLKIT", "B0OTHERSKU"}).
		Return(map[string]domain.ListingMapping{
			"B0DRILLKIT": {ASIN: "B0DRILLKIT", BomID: "bom-1"},
		}, nil).Once()

	_, api := humatest.New(t)
	handlers.RegisterMappingRoutes(api, handlers.NewMappingsHandler(mockStore))

	resp := api.Get("/api/v1/mappings?asins=b0drillkit,%20B0OTHERSKU")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"bom_id":"bom-1"`)
}

func TestMappings_GetEmptyParam(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)

	_, api := humatest.New(t)
	handlers.RegisterMappingRoutes(api, handlers.NewMappingsHandler(mockStore))

	resp := api.Get("/api/v1/mappings?asins=%20,%20")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestMappings_Delete(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.On("DeleteListingMapping", mock.Anything, "B0DRILLKIT").Return(nil).Once()

	_, api := humatest.New(t)
	handlers.RegisterMappingRoutes(api, handlers.NewMappingsHandler(mockStore))

	resp := api.Delete("/api/v1/mappings/b0drillkit")
	require.Equal(t, http.StatusNoContent, resp.Code)
}

func TestMappings_DeleteNotFound(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.On("DeleteListingMapping", mock.Anything, "B0MISSING1").
		Return(pgx.ErrNoRows).Once()

	_, api := humatest.New(t)
	handlers.RegisterMappingRoutes(api, handlers.NewMappingsHandler(mockStore))

	resp := api.Delete("/api/v1/mappings/B0MISSING1")
	require.Equal(t, http.StatusNotFound, resp.Code)
}
