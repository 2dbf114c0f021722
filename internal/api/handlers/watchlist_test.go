package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/resellkit/listing-scout/internal/api/handlers"
	storeMocks "github.com/resellkit/listing-scout/internal/store/mocks"
)

// stubRunner is a test double for WatchlistRunner.
type stubRunner struct {
	err    error
	called bool
}

func (s *stubRunner) RunWatchlist(context.Context) error {
	s.called = true
	return s.err
}

func TestWatchlist_List(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.On("ListWatchlist", mock.Anything).
		Return([]string{"B0DRILLKIT", "B0OTHERSKU"}, nil).Once()

	h := handlers.NewWatchlistHandler(mockStore, &stubRunner{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/watchlist", http.NoBody)
	rec := httptest.NewRecorder()

	require.NoError(t, h.List(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "B0DRILLKIT")
}

func TestWatchlist_ListEmpty(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.On("ListWatchlist", mock.Anything).Return(nil, nil).Once()

	h := handlers.NewWatchlistHandler(mockStore, &stubRunner{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/watchlist", http.NoBody)
	rec := httptest.NewRecorder()

	require.NoError(t, h.List(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"asins":[]`)
}

func TestWatchlist_Add(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		setupMock  func(*storeMocks.MockStore)
		wantStatus int
		wantBody   string
	}{
		{
			name: "valid asin added",
			body: `{"asin":"B0DRILLKIT"}`,
			setupMock: func(m *storeMocks.MockStore) {
				m.On("AddWatchlistItem", mock.Anything, "B0DRILLKIT").
					Return(nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"status":"added"`,
		},
		{
			name:       "missing asin rejected",
			body:       `{}`,
			setupMock:  func(*storeMocks.MockStore) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "asin is required",
		},
		{
			name: "store error returns 500",
			body: `{"asin":"B0DRILLKIT"}`,
			setupMock: func(m *storeMocks.MockStore) {
				m.On("AddWatchlistItem", mock.Anything, "B0DRILLKIT").
					Return(assert.AnError).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockStore := storeMocks.NewMockStore(t)
			tt.setupMock(mockStore)

			h := handlers.NewWatchlistHandler(mockStore, &stubRunner{})

			e := echo.New()
			req := httptest.NewRequest(
				http.MethodPost, "/api/v1/watchlist", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			require.NoError(t, h.Add(e.NewContext(req, rec)))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestWatchlist_Remove(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.On("RemoveWatchlistItem", mock.Anything, "B0DRILLKIT").
		Return(nil).Once()

	h := handlers.NewWatchlistHandler(mockStore, &stubRunner{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/watchlist/B0DRILLKIT", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("asin")
	c.SetParamValues("B0DRILLKIT")

	require.NoError(t, h.Remove(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestWatchlist_RemoveNotFound(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	mockStore.On("RemoveWatchlistItem", mock.Anything, "B0MISSING1").
		Return(pgx.ErrNoRows).Once()

	h := handlers.NewWatchlistHandler(mockStore, &stubRunner{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/watchlist/B0MISSING1", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("asin")
	c.SetParamValues("B0MISSING1")

	require.NoError(t, h.Remove(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWatchlist_Run(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	runner := &stubRunner{}
	h := handlers.NewWatchlistHandler(mockStore, runner)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/watchlist/run", http.NoBody)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Run(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, runner.called)
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)
}

func TestWatchlist_RunFailure(t *testing.T) {
	t.Parallel()

	mockStore := storeMocks.NewMockStore(t)
	runner := &stubRunner{err: errors.New("market unavailable")}
	h := handlers.NewWatchlistHandler(mockStore, runner)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/watchlist/run", http.NoBody)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Run(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "market unavailable")
}
