package bom

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
)

// SkuPart is one component reference parsed out of a compound SKU.
type SkuPart struct {
	Pattern  string
	Quantity int
}

var (
	compoundSplitRe = regexp.MustCompile(`[+/]`)
	qtyPrefixRe     = regexp.MustCompile(`(?i)^(\d+)x(.+)$`)
	qtySuffixRe     = regexp.MustCompile(`(?i)^(.+)\(x(\d+)\)$`)

	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ParseCompoundSku splits a compound SKU such as
// "MAKDJR186+2xBL1850+DC18RC" into its component patterns and quantities.
// Parts are separated by "+" or "/"; a quantity appears either as an "Nx"
// prefix or an "(xN)" suffix and defaults to one.
func ParseCompoundSku(sku string) []SkuPart {
	if sku == "" {
		return nil
	}

	var parts []SkuPart
	for _, raw := range compoundSplitRe.Split(sku, -1) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		qty := 1
		pattern := raw

		if m := qtyPrefixRe.FindStringSubmatch(raw); m != nil {
			qty, _ = strconv.Atoi(m[1])
			pattern = strings.TrimSpace(m[2])
		} else if m := qtySuffixRe.FindStringSubmatch(raw); m != nil {
			pattern = strings.TrimSpace(m[1])
			qty, _ = strconv.Atoi(m[2])
		}

		if qty < 1 {
			qty = 1
		}

		parts = append(parts, SkuPart{Pattern: pattern, Quantity: qty})
	}

	return parts
}

// FingerprintTitle normalizes a listing title for stable lookups:
// lowercased, punctuation stripped, whitespace collapsed.
func FingerprintTitle(title string) string {
	fp := strings.ToLower(title)
	fp = nonAlnumRe.ReplaceAllString(fp, " ")
	fp = whitespaceRe.ReplaceAllString(fp, " ")
	return strings.TrimSpace(fp)
}

// HashFingerprint returns the hex SHA-256 of a normalized fingerprint,
// or "" for an empty fingerprint.
func HashFingerprint(fp string) string {
	if fp == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(fp))
	return hex.EncodeToString(sum[:])
}
