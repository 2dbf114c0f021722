// Package titles extracts structured attributes from free-text listing
// titles. The engine only depends on the Parser interface; this regex
// implementation covers the power-tool catalog the business trades in.
package titles

import (
	"regexp"
	"strconv"
	"strings"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// Parser turns a listing title into a structured intent.
// Implementations return nil when nothing useful could be extracted.
type Parser interface {
	Parse(title string) *domain.ParsedIntent
}

// brandAliases maps supplier prefixes and spellings to canonical brands,
// in match-priority order so mixed-brand titles resolve deterministically.
var brandAliases = []struct {
	alias string
	brand string
}{
	{"makita", "Makita"},
	{"dewalt", "DeWalt"},
	{"milwaukee", "Milwaukee"},
	{"bosch", "Bosch"},
	{"timco", "TIMCO"},
	{"mak", "Makita"},
	{"dew", "DeWalt"},
}

// toolTypes in priority order: more specific names first so "combi drill"
// does not resolve to plain "drill".
var toolTypes = []string{
	"combi drill",
	"impact driver",
	"impact wrench",
	"circular saw",
	"recip saw",
	"jigsaw",
	"angle grinder",
	"multi tool",
	"sds drill",
	"drill",
	"grinder",
	"saw",
	"sander",
	"router",
	"planer",
}

var (
	voltageRe = regexp.MustCompile(`(\d{1,2})\s*v\b`)
	batteryRe = regexp.MustCompile(`(\d)\s*x\s*(\d(?:\.\d)?)\s*ah`)
	ahOnlyRe  = regexp.MustCompile(`(\d(?:\.\d)?)\s*ah`)
)

// RegexParser is the default Parser implementation.
type RegexParser struct{}

// NewRegexParser creates a RegexParser.
func NewRegexParser() *RegexParser {
	return &RegexParser{}
}

// Parse extracts brand, tool type, voltage, battery configuration and
// kit/bare-tool flags from a title. Returns nil for titles that yield
// no attributes at all.
func (*RegexParser) Parse(title string) *domain.ParsedIntent {
	if strings.TrimSpace(title) == "" {
		return nil
	}

	text := strings.ToLower(title)
	intent := &domain.ParsedIntent{}

	for _, a := range brandAliases {
		if strings.Contains(text, a.alias) {
			intent.Brand = a.brand
			break
		}
	}

	for _, tt := range toolTypes {
		if strings.Contains(text, tt) {
			intent.ToolType = tt
			break
		}
	}

	if m := voltageRe.FindStringSubmatch(text); m != nil {
		intent.Voltage, _ = strconv.Atoi(m[1])
	}

	if m := batteryRe.FindStringSubmatch(text); m != nil {
		intent.BatteryCount, _ = strconv.Atoi(m[1])
		intent.BatteryAh, _ = strconv.ParseFloat(m[2], 64)
	} else if m := ahOnlyRe.FindStringSubmatch(text); m != nil {
		intent.BatteryCount = 1
		intent.BatteryAh, _ = strconv.ParseFloat(m[1], 64)
	}

	intent.IsKit = strings.Contains(text, "kit")
	intent.IsBareTool = strings.Contains(text, "body only") ||
		strings.Contains(text, "bare unit") ||
		strings.Contains(text, "bare tool")
	intent.HasCharger = strings.Contains(text, "charger")
	intent.HasCase = strings.Contains(text, "case") ||
		strings.Contains(text, "makpac") ||
		strings.Contains(text, "tstak")

	if *intent == (domain.ParsedIntent{}) {
		return nil
	}
	return intent
}
