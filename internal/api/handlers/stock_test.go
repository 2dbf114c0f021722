package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/resellkit/listing-scout/internal/api/handlers"
	storeMocks "github.com/resellkit/listing-scout/internal/store/mocks"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

func TestStock_Upsert(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.On("UpsertStockLevel", mock.Anything, "comp-battery", "main", 20, 4).
		Return(nil).Once()

	_, api := humatest.New(t)
	handlers.RegisterStockRoutes(api, handlers.NewStockHandler(mockStore))

	resp := api.Put("/api/v1/stock",
		strings.NewReader(`{"component_id":"comp-battery","location":"main","on_hand":20,"reserved":4}`))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"saved"`)
}

func TestStock_UpsertRejectsNegative(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)

	_, api := humatest.New(t)
	handlers.RegisterStockRoutes(api, handlers.NewStockHandler(mockStore))

	resp := api.Put("/api/v1/stock",
		strings.NewReader(`{"component_id":"comp-battery","location":"main","on_hand":-1}`))
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestStock_Get(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.On("GetStockLevels", mock.Anything, []string{"comp-battery", "comp-drill"}, "warehouse-2").
		Return(domain.StockSnapshot{
			"comp-battery": {OnHand: 20, Reserved: 4},
		}, nil).Once()

	_, api := humatest.New(t)
	handlers.RegisterStockRoutes(api, handlers.NewStockHandler(mockStore))

	resp := api.Get("/api/v1/stock?component_ids=comp-battery,comp-drill&location=warehouse-2")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"on_hand":20`)
	assert.Contains(t, resp.Body.String(), `"warehouse-2"`)
}

func TestStock_GetDefaultLocation(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.On("GetStockLevels", mock.Anything, []string{"comp-battery"}, "main").
		Return(domain.StockSnapshot{}, nil).Once()

	_, api := humatest.New(t)
	handlers.RegisterStockRoutes(api, handlers.NewStockHandler(mockStore))

	resp := api.Get("/api/v1/stock?component_ids=comp-battery")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"location":"main"`)
}

func TestStock_GetEmptyIDs(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)

	_, api := humatest.New(t)
	handlers.RegisterStockRoutes(api, handlers.NewStockHandler(mockStore))

	resp := api.Get("/api/v1/stock?component_ids=%20")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
