package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/resellkit/listing-scout/internal/store"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// StockHandler handles stock level endpoints.
type StockHandler struct {
	store store.Store
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(s store.Store) *StockHandler {
	return &StockHandler{store: s}
}

// UpsertStockInput is the request body for setting a stock level.
type UpsertStockInput struct {
	Body struct {
		ComponentID string `json:"component_id" minLength:"1" doc:"Component UUID"`
		Location    string `json:"location" minLength:"1" doc:"Stock location" example:"main"`
		OnHand      int    `json:"on_hand" minimum:"0" doc:"Units physically on hand"`
		Reserved    int    `json:"reserved" minimum:"0" doc:"Units reserved for open orders"`
	}
}

// GetStockInput is the input for a bulk stock lookup.
type GetStockInput struct {
	ComponentIDs string `query:"component_ids" required:"true" doc:"Comma separated component UUIDs"`
	Location     string `query:"location" doc:"Stock location (default main)"`
}

// GetStockOutput is the response for a bulk stock lookup.
type GetStockOutput struct {
	Body struct {
		Location string               `json:"location"`
		Levels   domain.StockSnapshot `json:"levels"`
	}
}

// UpsertStock creates or replaces a component's stock level at a location.
func (h *StockHandler) UpsertStock(ctx context.Context, input *UpsertStockInput) (*StatusOutput, error) {
	err := h.store.UpsertStockLevel(
		ctx,
		input.Body.ComponentID,
		input.Body.Location,
		input.Body.OnHand,
		input.Body.Reserved,
	)
	if err != nil {
		return nil, huma.Error500InternalServerError("saving stock level: " + err.Error())
	}

	resp := &StatusOutput{}
	resp.Body.Status = "saved"
	return resp, nil
}

// GetStock returns stock levels for the requested components. Components
// with no recorded stock are absent from the response.
func (h *StockHandler) GetStock(ctx context.Context, input *GetStockInput) (*GetStockOutput, error) {
	var ids []string
	for _, id := range strings.Split(input.ComponentIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, huma.Error400BadRequest("component_ids query parameter is empty")
	}

	location := input.Location
	if location == "" {
		location = "main"
	}

	levels, err := h.store.GetStockLevels(ctx, ids, location)
	if err != nil {
		return nil, huma.Error500InternalServerError("fetching stock levels: " + err.Error())
	}
	if levels == nil {
		levels = domain.StockSnapshot{}
	}

	resp := &GetStockOutput{}
	resp.Body.Location = location
	resp.Body.Levels = levels
	return resp, nil
}

// RegisterStockRoutes registers stock endpoints with the Huma API.
func RegisterStockRoutes(api huma.API, h *StockHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "upsert-stock",
		Method:      http.MethodPut,
		Path:        "/api/v1/stock",
		Summary:     "Set a component stock level",
		Tags:        []string{"stock"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.UpsertStock)

	huma.Register(api, huma.Operation{
		OperationID: "get-stock",
		Method:      http.MethodGet,
		Path:        "/api/v1/stock",
		Summary:     "Bulk lookup stock levels",
		Tags:        []string{"stock"},
		Errors:      []int{http.StatusBadRequest},
	}, h.GetStock)
}
