package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/resellkit/listing-scout/internal/store"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// MappingsHandler handles listing-to-BOM mapping endpoints.
type MappingsHandler struct {
	store store.Store
}

// NewMappingsHandler creates a new MappingsHandler.
func NewMappingsHandler(s store.Store) *MappingsHandler {
	return &MappingsHandler{store: s}
}

// UpsertMappingInput is the request body for creating or replacing a mapping.
type UpsertMappingInput struct {
	Body struct {
		ASIN               string   `json:"asin" minLength:"10" maxLength:"10" doc:"Marketplace identifier" example:"B0DRILLKIT"`
		BomID              string   `json:"bom_id" minLength:"1" doc:"BOM UUID the identifier maps to"`
		FeeOverridePercent *float64 `json:"fee_override_percent,omitempty" doc:"Referral fee override for this listing" minimum:"0" maximum:"100"`
	}
}

// GetMappingsInput is the input for a bulk mapping lookup.
type GetMappingsInput struct {
	ASINs string `query:"asins" required:"true" doc:"Comma separated marketplace identifiers"`
}

// GetMappingsOutput is the response for a bulk mapping lookup.
type GetMappingsOutput struct {
	Body struct {
		Mappings map[string]domain.ListingMapping `json:"mappings"`
	}
}

// DeleteMappingInput is the input for deleting a mapping.
type DeleteMappingInput struct {
	ASIN string `path:"asin" doc:"Marketplace identifier"`
}

// UpsertMapping creates or replaces a listing mapping.
func (h *MappingsHandler) UpsertMapping(
	ctx context.Context,
	input *UpsertMappingInput,
) (*StatusOutput, error) {
	m := &domain.ListingMapping{
		ASIN:               strings.ToUpper(input.Body.ASIN),
		BomID:              input.Body.BomID,
		FeeOverridePercent: input.Body.FeeOverridePercent,
	}

	if err := h.store.UpsertListingMapping(ctx, m); err != nil {
		return nil, huma.Error500InternalServerError("saving mapping: " + err.Error())
	}

	resp := &StatusOutput{}
	resp.Body.Status = "saved"
	return resp, nil
}

// GetMappings returns mappings for the requested identifiers. Identifiers
// with no mapping are simply absent from the response.
func (h *MappingsHandler) GetMappings(
	ctx context.Context,
	input *GetMappingsInput,
) (*GetMappingsOutput, error) {
	var asins []string
	for _, a := range strings.Split(input.ASINs, ",") {
		if a = strings.ToUpper(strings.TrimSpace(a)); a != "" {
			asins = append(asins, a)
		}
	}
	if len(asins) == 0 {
		return nil, huma.Error400BadRequest("asins query parameter is empty")
	}

	mappings, err := h.store.GetListingMappings(ctx, asins)
	if err != nil {
		return nil, huma.Error500InternalServerError("fetching mappings: " + err.Error())
	}
	if mappings == nil {
		mappings = map[string]domain.ListingMapping{}
	}

	resp := &GetMappingsOutput{}
	resp.Body.Mappings = mappings
	return resp, nil
}

// DeleteMapping removes a listing mapping.
func (h *MappingsHandler) DeleteMapping(
	ctx context.Context,
	input *DeleteMappingInput,
) (*struct{}, error) {
	if err := h.store.DeleteListingMapping(ctx, strings.ToUpper(input.ASIN)); err != nil {
		if store.IsNotFound(err) {
			return nil, huma.Error404NotFound("mapping not found")
		}
		return nil, huma.Error500InternalServerError("deleting mapping: " + err.Error())
	}
	return &struct{}{}, nil
}

// RegisterMappingRoutes registers mapping endpoints with the Huma API.
func RegisterMappingRoutes(api huma.API, h *MappingsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "upsert-mapping",
		Method:      http.MethodPut,
		Path:        "/api/v1/mappings",
		Summary:     "Create or replace a listing mapping",
		Tags:        []string{"mappings"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.UpsertMapping)

	huma.Register(api, huma.Operation{
		OperationID: "get-mappings",
		Method:      http.MethodGet,
		Path:        "/api/v1/mappings",
		Summary:     "Bulk lookup listing mappings",
		Tags:        []string{"mappings"},
		Errors:      []int{http.StatusBadRequest},
	}, h.GetMappings)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-mapping",
		Method:        http.MethodDelete,
		Path:          "/api/v1/mappings/{asin}",
		Summary:       "Delete a listing mapping",
		Tags:          []string{"mappings"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.DeleteMapping)
}
