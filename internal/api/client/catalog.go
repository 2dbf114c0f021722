package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// ComponentRequest contains the fields the API accepts when creating a
// component.
type ComponentRequest struct {
	SKU         string `json:"sku"`
	Description string `json:"description,omitempty"`
	Brand       string `json:"brand,omitempty"`
	UnitCost    *int64 `json:"unit_cost,omitempty"`
}

// componentList mirrors the list response body.
type componentList struct {
	Components []domain.Component `json:"components"`
	Total      int                `json:"total"`
}

// CreateComponent creates a catalog component.
func (c *Client) CreateComponent(ctx context.Context, req ComponentRequest) (*domain.Component, error) {
	var created domain.Component
	if err := c.post(ctx, "/api/v1/components", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListComponents returns components matching the optional brand filter.
func (c *Client) ListComponents(ctx context.Context, brand string) ([]domain.Component, int, error) {
	path := "/api/v1/components"
	if brand != "" {
		path += "?brand=" + url.QueryEscape(brand)
	}

	var list componentList
	if err := c.get(ctx, path, &list); err != nil {
		return nil, 0, err
	}
	return list.Components, list.Total, nil
}

// GetComponent returns a single component by ID.
func (c *Client) GetComponent(ctx context.Context, id string) (*domain.Component, error) {
	var comp domain.Component
	if err := c.get(ctx, "/api/v1/components/"+id, &comp); err != nil {
		return nil, err
	}
	return &comp, nil
}

// UpdateComponentCost sets a component's unit cost; nil clears it.
func (c *Client) UpdateComponentCost(ctx context.Context, id string, unitCost *int64) error {
	body := map[string]*int64{"unit_cost": unitCost}
	return c.put(ctx, fmt.Sprintf("/api/v1/components/%s/cost", id), body, nil)
}

// DeleteComponent removes a component.
func (c *Client) DeleteComponent(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/components/"+id)
}

// BomLineRequest is one line of a BOM create request.
type BomLineRequest struct {
	ComponentID string `json:"component_id"`
	Quantity    int    `json:"quantity"`
}

// BomRequest contains the fields the API accepts when creating a BOM.
type BomRequest struct {
	SKU         string           `json:"sku"`
	Description string           `json:"description,omitempty"`
	Active      bool             `json:"active"`
	Lines       []BomLineRequest `json:"lines,omitempty"`
}

// bomList mirrors the list response body.
type bomList struct {
	Boms []domain.BillOfMaterials `json:"boms"`
}

// CreateBom creates a bill of materials.
func (c *Client) CreateBom(ctx context.Context, req BomRequest) (*domain.BillOfMaterials, error) {
	var created domain.BillOfMaterials
	if err := c.post(ctx, "/api/v1/boms", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListActiveBoms returns the active BOM catalog.
func (c *Client) ListActiveBoms(ctx context.Context) ([]domain.BillOfMaterials, error) {
	var list bomList
	if err := c.get(ctx, "/api/v1/boms", &list); err != nil {
		return nil, err
	}
	return list.Boms, nil
}

// GetBom returns a single BOM by ID.
func (c *Client) GetBom(ctx context.Context, id string) (*domain.BillOfMaterials, error) {
	var b domain.BillOfMaterials
	if err := c.get(ctx, "/api/v1/boms/"+id, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// SetBomActive enables or disables a BOM.
func (c *Client) SetBomActive(ctx context.Context, id string, active bool) error {
	body := map[string]bool{"active": active}
	return c.put(ctx, fmt.Sprintf("/api/v1/boms/%s/active", id), body, nil)
}

// DeleteBom removes a BOM.
func (c *Client) DeleteBom(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/boms/"+id)
}

// MappingRequest contains the fields the API accepts for a mapping upsert.
type MappingRequest struct {
	ASIN               string   `json:"asin"`
	BomID              string   `json:"bom_id"`
	FeeOverridePercent *float64 `json:"fee_override_percent,omitempty"`
}

// mappingLookup mirrors the bulk lookup response body.
type mappingLookup struct {
	Mappings map[string]domain.ListingMapping `json:"mappings"`
}

// UpsertMapping creates or replaces a listing mapping.
func (c *Client) UpsertMapping(ctx context.Context, req MappingRequest) error {
	return c.put(ctx, "/api/v1/mappings", req, nil)
}

// GetMappings returns mappings for the given identifiers.
func (c *Client) GetMappings(ctx context.Context, asins []string) (map[string]domain.ListingMapping, error) {
	var lookup mappingLookup
	path := "/api/v1/mappings?asins=" + url.QueryEscape(strings.Join(asins, ","))
	if err := c.get(ctx, path, &lookup); err != nil {
		return nil, err
	}
	return lookup.Mappings, nil
}

// DeleteMapping removes a listing mapping.
func (c *Client) DeleteMapping(ctx context.Context, asin string) error {
	return c.del(ctx, "/api/v1/mappings/"+asin)
}

// StockRequest contains the fields the API accepts for a stock upsert.
type StockRequest struct {
	ComponentID string `json:"component_id"`
	Location    string `json:"location"`
	OnHand      int    `json:"on_hand"`
	Reserved    int    `json:"reserved"`
}

// UpsertStock sets a component stock level.
func (c *Client) UpsertStock(ctx context.Context, req StockRequest) error {
	return c.put(ctx, "/api/v1/stock", req, nil)
}
