package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/resellkit/listing-scout/internal/store"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// ComponentsHandler handles component catalog endpoints.
type ComponentsHandler struct {
	store store.Store
}

// NewComponentsHandler creates a new ComponentsHandler.
func NewComponentsHandler(s store.Store) *ComponentsHandler {
	return &ComponentsHandler{store: s}
}

// CreateComponentInput is the request body for creating a component.
type CreateComponentInput struct {
	Body struct {
		SKU         string `json:"sku" minLength:"1" doc:"Internal component SKU" example:"BL1850"`
		Description string `json:"description,omitempty" doc:"Human readable description"`
		Brand       string `json:"brand,omitempty" doc:"Component brand" example:"Makita"`
		UnitCost    *int64 `json:"unit_cost,omitempty" doc:"Unit cost in minor currency units; omit when unknown" example:"4500"`
	}
}

// ComponentOutput is the response for a single component.
type ComponentOutput struct {
	Body domain.Component
}

// ListComponentsInput is the input for listing components with filters.
type ListComponentsInput struct {
	Brand  string `query:"brand"  doc:"Filter by brand"`
	SKU    string `query:"sku"    doc:"Filter by SKU substring"`
	Limit  int    `query:"limit"  doc:"Number of results (default 50)" minimum:"1" maximum:"500"`
	Offset int    `query:"offset" doc:"Pagination offset"              minimum:"0"`
}

// ListComponentsOutput is the response for listing components.
type ListComponentsOutput struct {
	Body struct {
		Components []domain.Component `json:"components"`
		Total      int                `json:"total"`
	}
}

// GetComponentInput is the input for fetching a single component.
type GetComponentInput struct {
	ID string `path:"id" doc:"Component UUID"`
}

// UpdateComponentCostInput is the input for updating a component cost.
type UpdateComponentCostInput struct {
	ID   string `path:"id" doc:"Component UUID"`
	Body struct {
		UnitCost *int64 `json:"unit_cost" doc:"New unit cost in minor units; null clears the cost"`
	}
}

// DeleteComponentInput is the input for deleting a component.
type DeleteComponentInput struct {
	ID string `path:"id" doc:"Component UUID"`
}

// CreateComponent adds a component to the catalog.
func (h *ComponentsHandler) CreateComponent(
	ctx context.Context,
	input *CreateComponentInput,
) (*ComponentOutput, error) {
	c := &domain.Component{
		SKU:         input.Body.SKU,
		Description: input.Body.Description,
		Brand:       input.Body.Brand,
		UnitCost:    moneyFromPtr(input.Body.UnitCost),
	}

	if err := h.store.CreateComponent(ctx, c); err != nil {
		return nil, huma.Error500InternalServerError("creating component: " + err.Error())
	}
	return &ComponentOutput{Body: *c}, nil
}

// GetComponent returns a single component by ID.
func (h *ComponentsHandler) GetComponent(
	ctx context.Context,
	input *GetComponentInput,
) (*ComponentOutput, error) {
	c, err := h.store.GetComponent(ctx, input.ID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, huma.Error404NotFound("component not found")
		}
		return nil, huma.Error500InternalServerError("fetching component: " + err.Error())
	}
	return &ComponentOutput{Body: *c}, nil
}

// ListComponents returns components matching the optional filters.
func (h *ComponentsHandler) ListComponents(
	ctx context.Context,
	input *ListComponentsInput,
) (*ListComponentsOutput, error) {
	q := &store.ComponentQuery{
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if input.Brand != "" {
		q.Brand = &input.Brand
	}
	if input.SKU != "" {
		q.SKU = &input.SKU
	}

	components, total, err := h.store.ListComponents(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing components: " + err.Error())
	}
	if components == nil {
		components = []domain.Component{}
	}

	resp := &ListComponentsOutput{}
	resp.Body.Components = components
	resp.Body.Total = total
	return resp, nil
}

// UpdateComponentCost sets or clears a component's unit cost.
func (h *ComponentsHandler) UpdateComponentCost(
	ctx context.Context,
	input *UpdateComponentCostInput,
) (*StatusOutput, error) {
	cost := moneyFromPtr(input.Body.UnitCost)

	if err := h.store.UpdateComponentCost(ctx, input.ID, cost); err != nil {
		if store.IsNotFound(err) {
			return nil, huma.Error404NotFound("component not found")
		}
		return nil, huma.Error500InternalServerError("updating component cost: " + err.Error())
	}

	resp := &StatusOutput{}
	resp.Body.Status = "updated"
	return resp, nil
}

// DeleteComponent removes a component from the catalog.
func (h *ComponentsHandler) DeleteComponent(
	ctx context.Context,
	input *DeleteComponentInput,
) (*struct{}, error) {
	if err := h.store.DeleteComponent(ctx, input.ID); err != nil {
		if store.IsNotFound(err) {
			return nil, huma.Error404NotFound("component not found")
		}
		return nil, huma.Error500InternalServerError("deleting component: " + err.Error())
	}
	return &struct{}{}, nil
}

// StatusOutput wraps a status string response.
type StatusOutput struct {
	Body struct {
		Status string `json:"status" example:"updated"`
	}
}

// moneyFromPtr converts an optional minor-unit amount to Money.
func moneyFromPtr(v *int64) domain.Money {
	if v == nil {
		return domain.UnknownMoney()
	}
	return domain.NewMoney(*v)
}

// RegisterComponentRoutes registers component endpoints with the Huma API.
func RegisterComponentRoutes(api huma.API, h *ComponentsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-component",
		Method:      http.MethodPost,
		Path:        "/api/v1/components",
		Summary:     "Create a component",
		Tags:        []string{"components"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.CreateComponent)

	huma.Register(api, huma.Operation{
		OperationID: "list-components",
		Method:      http.MethodGet,
		Path:        "/api/v1/components",
		Summary:     "List components",
		Tags:        []string{"components"},
	}, h.ListComponents)

	huma.Register(api, huma.Operation{
		OperationID: "get-component",
		Method:      http.MethodGet,
		Path:        "/api/v1/components/{id}",
		Summary:     "Get a component by ID",
		Tags:        []string{"components"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetComponent)

	huma.Register(api, huma.Operation{
		OperationID: "update-component-cost",
		Method:      http.MethodPut,
		Path:        "/api/v1/components/{id}/cost",
		Summary:     "Update a component's unit cost",
		Tags:        []string{"components"},
		Errors:      []int{http.StatusNotFound},
	}, h.UpdateComponentCost)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-component",
		Method:        http.MethodDelete,
		Path:          "/api/v1/components/{id}",
		Summary:       "Delete a component",
		Tags:          []string{"components"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.DeleteComponent)
}
