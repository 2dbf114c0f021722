package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/resellkit/listing-scout/internal/store"
	"github.com/resellkit/listing-scout/pkg/bom"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// BomsHandler handles bill-of-materials endpoints.
type BomsHandler struct {
	store store.Store
}

// NewBomsHandler creates a new BomsHandler.
func NewBomsHandler(s store.Store) *BomsHandler {
	return &BomsHandler{store: s}
}

// CreateBomInput is the request body for creating a BOM. Lines may be
// omitted when the SKU is a compound recipe such as
// "MAKDJR186+2xBL1850+DC18RC"; each part is then resolved to a component
// by SKU.
type CreateBomInput struct {
	Body struct {
		SKU         string `json:"sku" minLength:"1" doc:"Sellable product SKU, optionally a compound recipe" example:"MAKDJR186+2xBL1850+DC18RC"`
		Description string `json:"description,omitempty" doc:"Human readable description"`
		Active      bool   `json:"active" doc:"Whether the BOM participates in matching"`
		Lines       []struct {
			ComponentID string `json:"component_id" minLength:"1" doc:"Component UUID"`
			Quantity    int    `json:"quantity" minimum:"1" doc:"Units of the component per assembly"`
		} `json:"lines,omitempty" doc:"Component requirements; omit to derive them from a compound SKU"`
	}
}

// BomOutput is the response for a single BOM.
type BomOutput struct {
	Body domain.BillOfMaterials
}

// GetBomInput is the input for fetching a single BOM.
type GetBomInput struct {
	ID string `path:"id" doc:"BOM UUID"`
}

// ListBomsOutput is the response for listing active BOMs.
type ListBomsOutput struct {
	Body struct {
		Boms []domain.BillOfMaterials `json:"boms"`
	}
}

// SetBomActiveInput is the input for toggling a BOM's active flag.
type SetBomActiveInput struct {
	ID   string `path:"id" doc:"BOM UUID"`
	Body struct {
		Active bool `json:"active" doc:"New active state"`
	}
}

// DeleteBomInput is the input for deleting a BOM.
type DeleteBomInput struct {
	ID string `path:"id" doc:"BOM UUID"`
}

// CreateBom creates a BOM with its component lines. Without explicit
// lines the SKU is parsed as a compound recipe and every part must
// resolve to an existing component.
func (h *BomsHandler) CreateBom(ctx context.Context, input *CreateBomInput) (*BomOutput, error) {
	b := &domain.BillOfMaterials{
		SKU:         input.Body.SKU,
		Description: input.Body.Description,
		Active:      input.Body.Active,
	}
	for _, line := range input.Body.Lines {
		b.Lines = append(b.Lines, domain.BomLine{
			ComponentID: line.ComponentID,
			Quantity:    line.Quantity,
		})
	}

	if len(b.Lines) == 0 {
		lines, err := h.linesFromCompoundSku(ctx, input.Body.SKU)
		if err != nil {
			return nil, err
		}
		b.Lines = lines
	}

	if err := h.store.CreateBom(ctx, b); err != nil {
		return nil, huma.Error500InternalServerError("creating bom: " + err.Error())
	}
	return &BomOutput{Body: *b}, nil
}

func (h *BomsHandler) linesFromCompoundSku(ctx context.Context, sku string) ([]domain.BomLine, error) {
	parts := bom.ParseCompoundSku(sku)
	if len(parts) == 0 {
		return nil, huma.Error400BadRequest("lines are required when the sku is not a compound recipe")
	}

	var lines []domain.BomLine
	for _, part := range parts {
		c, err := h.store.GetComponentBySKU(ctx, part.Pattern)
		if err != nil {
			if store.IsNotFound(err) {
				return nil, huma.Error400BadRequest(fmt.Sprintf(
					"compound sku part %q does not match any component", part.Pattern,
				))
			}
			return nil, huma.Error500InternalServerError("resolving compound sku: " + err.Error())
		}
		lines = append(lines, domain.BomLine{
			ComponentID:  c.ID,
			ComponentSKU: c.SKU,
			Quantity:     part.Quantity,
			UnitCost:     c.UnitCost,
		})
	}
	return lines, nil
}

// GetBom returns a single BOM with its lines.
func (h *BomsHandler) GetBom(ctx context.Context, input *GetBomInput) (*BomOutput, error) {
	b, err := h.store.GetBom(ctx, input.ID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, huma.Error404NotFound("bom not found")
		}
		return nil, huma.Error500InternalServerError("fetching bom: " + err.Error())
	}
	return &BomOutput{Body: *b}, nil
}

// ListActiveBoms returns the active BOM catalog.
func (h *BomsHandler) ListActiveBoms(ctx context.Context, _ *struct{}) (*ListBomsOutput, error) {
	boms, err := h.store.GetActiveBoms(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing boms: " + err.Error())
	}
	if boms == nil {
		boms = []domain.BillOfMaterials{}
	}

	resp := &ListBomsOutput{}
	resp.Body.Boms = boms
	return resp, nil
}

// SetBomActive toggles whether a BOM participates in matching.
func (h *BomsHandler) SetBomActive(
	ctx context.Context,
	input *SetBomActiveInput,
) (*StatusOutput, error) {
	if err := h.store.SetBomActive(ctx, input.ID, input.Body.Active); err != nil {
		if store.IsNotFound(err) {
			return nil, huma.Error404NotFound("bom not found")
		}
		return nil, huma.Error500InternalServerError("updating bom: " + err.Error())
	}

	resp := &StatusOutput{}
	resp.Body.Status = "updated"
	return resp, nil
}

// DeleteBom removes a BOM and its lines.
func (h *BomsHandler) DeleteBom(ctx context.Context, input *DeleteBomInput) (*struct{}, error) {
	if err := h.store.DeleteBom(ctx, input.ID); err != nil {
		if store.IsNotFound(err) {
			return nil, huma.Error404NotFound("bom not found")
		}
		return nil, huma.Error500InternalServerError("deleting bom: " + err.Error())
	}
	return &struct{}{}, nil
}

// RegisterBomRoutes registers BOM endpoints with the Huma API.
func RegisterBomRoutes(api huma.API, h *BomsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-bom",
		Method:      http.MethodPost,
		Path:        "/api/v1/boms",
		Summary:     "Create a bill of materials",
		Tags:        []string{"boms"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.CreateBom)

	huma.Register(api, huma.Operation{
		OperationID: "list-boms",
		Method:      http.MethodGet,
		Path:        "/api/v1/boms",
		Summary:     "List active BOMs",
		Tags:        []string{"boms"},
	}, h.ListActiveBoms)

	huma.Register(api, huma.Operation{
		OperationID: "get-bom",
		Method:      http.MethodGet,
		Path:        "/api/v1/boms/{id}",
		Summary:     "Get a BOM by ID",
		Tags:        []string{"boms"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetBom)

	huma.Register(api, huma.Operation{
		OperationID: "set-bom-active",
		Method:      http.MethodPut,
		Path:        "/api/v1/boms/{id}/active",
		Summary:     "Enable or disable a BOM",
		Tags:        []string{"boms"},
		Errors:      []int{http.StatusNotFound},
	}, h.SetBomActive)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-bom",
		Method:        http.MethodDelete,
		Path:          "/api/v1/boms/{id}",
		Summary:       "Delete a BOM",
		Tags:          []string{"boms"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.DeleteBom)
}
