// Package bom implements bill-of-materials matching and feasibility math.
package bom

import (
	"fmt"
	"sort"
	"strings"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// Match is one candidate BOM with its accumulated match score.
type Match struct {
	Bom        *domain.BillOfMaterials
	Score      int
	Confidence domain.Confidence
	Rationale  []string
}

// Signal point values. Tool type is the strongest single signal because a
// brand or voltage hit alone says nothing about which product this is.
const (
	pointsBrand        = 20
	pointsToolType     = 30
	pointsVoltage      = 15
	pointsBatteryCount = 15
	pointsBareTool     = 20
	pointsKit          = 10
	pointsCharger      = 10
	pointsCase         = 10
)

// Confidence cutoffs on the accumulated score.
const (
	confidenceHighMin   = 60
	confidenceMediumMin = 30
)

// MatchByIntent scores every candidate BOM against a parsed title intent
// using independent case-insensitive substring checks on the BOM's SKU and
// description. Candidates scoring zero are dropped. Output is sorted by
// score descending; ties keep the original candidate order.
func MatchByIntent(
	intent *domain.ParsedIntent,
	candidates []domain.BillOfMaterials,
) []Match {
	if intent == nil {
		return nil
	}

	var matches []Match
	for i := range candidates {
		b := &candidates[i]
		text := strings.ToLower(b.SKU + " " + b.Description)

		score, rationale := scoreAgainst(intent, text)
		if score == 0 {
			continue
		}

		matches = append(matches, Match{
			Bom:        b,
			Score:      score,
			Confidence: confidenceFor(score),
			Rationale:  rationale,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

func scoreAgainst(intent *domain.ParsedIntent, text string) (int, []string) {
	score := 0
	var rationale []string

	hit := func(points int, signal, matched string) {
		score += points
		rationale = append(rationale,
			fmt.Sprintf("%s %q (+%d)", signal, matched, points))
	}

	if intent.Brand != "" && strings.Contains(text, strings.ToLower(intent.Brand)) {
		hit(pointsBrand, "brand", intent.Brand)
	}
	if intent.ToolType != "" && strings.Contains(text, strings.ToLower(intent.ToolType)) {
		hit(pointsToolType, "tool type", intent.ToolType)
	}
	if intent.Voltage > 0 {
		v := fmt.Sprintf("%dv", intent.Voltage)
		if strings.Contains(text, v) {
			hit(pointsVoltage, "voltage", v)
		}
	}
	if intent.BatteryCount > 0 {
		if matched, ok := containsAny(text,
			fmt.Sprintf("%dx", intent.BatteryCount),
			fmt.Sprintf("x%d", intent.BatteryCount),
		); ok {
			hit(pointsBatteryCount, "battery count", matched)
		}
	}
	if intent.IsBareTool {
		if matched, ok := containsAny(text, "bare", "body"); ok {
			hit(pointsBareTool, "bare tool", matched)
		}
	}
	if intent.IsKit && strings.Contains(text, "kit") {
		hit(pointsKit, "kit", "kit")
	}
	if intent.HasCharger && strings.Contains(text, "charger") {
		hit(pointsCharger, "charger", "charger")
	}
	if intent.HasCase {
		if matched, ok := containsAny(text, "case", "makpac", "tstak"); ok {
			hit(pointsCase, "case", matched)
		}
	}

	return score, rationale
}

func containsAny(text string, subs ...string) (string, bool) {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return s, true
		}
	}
	return "", false
}

func confidenceFor(score int) domain.Confidence {
	switch {
	case score >= confidenceHighMin:
		return domain.ConfidenceHigh
	case score >= confidenceMediumMin:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
