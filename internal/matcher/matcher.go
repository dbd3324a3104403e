// Package matcher maps image filenames onto catalog entries and produces
// collision-free, order-stable output names.
//
// Matching is exact normalized substring matching, not fuzzy: a prefix hit
// means the model code leads the filename (the usual convention for catalog
// exports) and scores 100, a mid-filename hit scores 80, anything else 0.
// Predictability matters more here than recall; users audit the results.
package matcher

import (
	"strings"

	"github.com/solorzano0401/genesis-tools/internal/catalog"
	"github.com/solorzano0401/genesis-tools/internal/constants"
)

// Match records the best catalog candidate for an item.
type Match struct {
	Model string `json:"model"`
	SKU   string `json:"sku"`
	Score int    `json:"score"` // 100, 80, or absent entirely
}

// normReplacer strips the separator characters ignored during comparison.
var normReplacer = strings.NewReplacer("-", "", "_", "", ".", "", " ", "", "\t", "", "\n", "", "\r", "")

// Normalize lowercases s and removes hyphens, underscores, dots and whitespace.
func Normalize(s string) string {
	return normReplacer.Replace(strings.ToLower(s))
}

// ScoreMatch scores a normalized filename against a normalized model.
func ScoreMatch(normFilename, normModel string) int {
	if normModel == "" {
		return 0
	}
	if strings.HasPrefix(normFilename, normModel) {
		return constants.ScorePrefix
	}
	if strings.Contains(normFilename, normModel) {
		return constants.ScoreSubstring
	}
	return 0
}

// FindBestMatch scans the whole catalog and keeps the entry with the strictly
// highest score. Ties keep the earliest-encountered entry. Returns nil when
// nothing scores above zero; a missing match is a normal outcome, not an error.
func FindBestMatch(filename string, entries []catalog.Entry) *Match {
	normName := Normalize(filename)

	var best *Match
	highest := 0
	for _, e := range entries {
		score := ScoreMatch(normName, Normalize(e.Model))
		if score > highest {
			highest = score
			best = &Match{Model: e.Model, SKU: e.SKU, Score: score}
		}
	}
	return best
}
