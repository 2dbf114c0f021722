// Package main implements a mock pricing API server for local development.
// It serves canned product snapshots from a JSON fixture so the market
// client can be exercised without real marketplace credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

type product struct {
	ASIN         string   `json:"asin"`
	Title        string   `json:"title"`
	Category     string   `json:"category,omitempty"`
	SizeTier     string   `json:"size_tier,omitempty"`
	PricePence   *int64   `json:"price_pence"`
	SalesRank    *int     `json:"sales_rank,omitempty"`
	OfferCount   *int     `json:"offer_count,omitempty"`
	PriceHistory []int64  `json:"price_history_pence,omitempty"`
	AsOf         string   `json:"as_of"`
}

type fixtureFile struct {
	Products []product `json:"products"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixturePath := flag.String("fixture", "tools/mock-server/testdata/products.json", "path to products fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixturePath, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "products", len(fixture.Products))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", snapshotsHandler(logger, fixture))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock pricing server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (*fixtureFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f fixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &f, nil
}

// snapshotsHandler returns the fixture products matching the requested
// identifiers. Unknown identifiers are simply absent, mirroring the real
// API's behavior for unresolved listings.
func snapshotsHandler(logger *slog.Logger, fixture *fixtureFile) http.HandlerFunc {
	byASIN := make(map[string]product, len(fixture.Products))
	for _, p := range fixture.Products {
		byASIN[p.ASIN] = p
	}

	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "path", r.URL.Path, "query", r.URL.RawQuery)

		if r.Header.Get("X-Api-Key") == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			//nolint:errcheck // best-effort write in mock server
			json.NewEncoder(w).Encode(map[string]string{"error": "missing api key"})
			return
		}

		matched := []product{}
		for _, asin := range strings.Split(r.URL.Query().Get("asins"), ",") {
			if p, ok := byASIN[strings.TrimSpace(asin)]; ok {
				matched = append(matched, p)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck // best-effort write in mock server
		json.NewEncoder(w).Encode(map[string]any{"products": matched})
		logger.Info("served snapshots", "requested", r.URL.Query().Get("asins"), "matched", len(matched))
	}
}
