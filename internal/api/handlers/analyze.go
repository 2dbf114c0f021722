package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/resellkit/listing-scout/internal/engine"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// Analyzer runs a batch analysis. Satisfied by *engine.BatchAnalyzer.
type Analyzer interface {
	Analyze(ctx context.Context, req engine.Request) (*domain.BatchResult, error)
}

// AnalyzeHandler handles batch analysis requests.
type AnalyzeHandler struct {
	analyzer Analyzer
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(a Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: a}
}

// AnalyzeInput is the request body for the analyze endpoint.
type AnalyzeInput struct {
	Body engine.Request
}

// AnalyzeOutput is the response body for the analyze endpoint.
type AnalyzeOutput struct {
	Body domain.BatchResult
}

// Analyze scores a batch of marketplace identifiers.
//
// A batch that produced partial results before an internal failure is
// still returned in full; only a batch with nothing usable errors out.
func (h *AnalyzeHandler) Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error) {
	result, err := h.analyzer.Analyze(ctx, input.Body)
	if err != nil {
		if errors.Is(err, engine.ErrNoValidIdentifiers) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		if result == nil {
			return nil, huma.Error500InternalServerError("analysis failed: " + err.Error())
		}
	}
	return &AnalyzeOutput{Body: *result}, nil
}

// RegisterAnalyzeRoutes registers the analyze endpoint with the Huma API.
func RegisterAnalyzeRoutes(api huma.API, h *AnalyzeHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "analyze-batch",
		Method:      http.MethodPost,
		Path:        "/api/v1/analyze",
		Summary:     "Analyze a batch of identifiers",
		Description: "Runs the full analysis pipeline over a batch of marketplace identifiers and returns opportunities ranked by score.",
		Tags:        []string{"analyze"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.Analyze)
}
