package matcher

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/solorzano0401/genesis-tools/internal/catalog"
)

// Item is one uploaded image in the encoder's working set. Slice position is
// the display order; IDs are stable for the item's lifetime and never reused.
type Item struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	Data         []byte `json:"-"`
	Match        *Match `json:"match,omitempty"`
	FinalName    string `json:"final_name"`
}

// NewItem creates an item with a fresh ID and the filename stem as the
// initial final name.
func NewItem(originalName string, data []byte) *Item {
	return &Item{
		ID:           uuid.NewString(),
		OriginalName: originalName,
		Data:         data,
		FinalName:    Stem(originalName),
	}
}

// Stem returns the filename without its extension.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Ext returns the filename extension without the dot, defaulting to jpg.
func Ext(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "jpg"
	}
	return ext
}

// ValidateAll recomputes matches for every item in display order and assigns
// final names through a per-pass SKU occurrence counter: the first item
// carrying a SKU gets the bare SKU, later ones get SKU_1, SKU_2, and so on.
// Items with no match keep their existing final name. This is the only
// operation allowed to overwrite user-edited names based on scores, and it is
// idempotent for a fixed catalog and ordering.
func ValidateAll(items []*Item, entries []catalog.Entry) {
	skuCount := make(map[string]int)
	for _, item := range items {
		item.Match = FindBestMatch(item.OriginalName, entries)
		if item.Match == nil {
			continue
		}
		item.FinalName = nextName(skuCount, item.Match.SKU)
	}
}

// Reorder moves the item at from to position to (splice semantics) and reruns
// the occurrence-counter pass over the new order. Only items already carrying
// a positive match are renamed; unmatched items keep whatever name they have,
// including user edits. Matching itself never changes here.
func Reorder(items []*Item, from, to int) []*Item {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) || from == to {
		return items
	}

	moved := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]*Item{moved}, items[to:]...)...)

	skuCount := make(map[string]int)
	for _, item := range items {
		if item.Match == nil || item.Match.Score <= 0 {
			continue
		}
		item.FinalName = nextName(skuCount, item.Match.SKU)
	}
	return items
}

// nextName returns the collision-resolved name for the next occurrence of sku.
func nextName(skuCount map[string]int, sku string) string {
	n := skuCount[sku]
	skuCount[sku] = n + 1
	if n == 0 {
		return sku
	}
	return fmt.Sprintf("%s_%d", sku, n)
}

// Remove deletes the item at index, preserving the order and IDs of the rest.
func Remove(items []*Item, index int) []*Item {
	if index < 0 || index >= len(items) {
		return items
	}
	return append(items[:index], items[index+1:]...)
}

// CheckDuplicates returns the final names shared by two or more items after
// trimming and case-folding, in first-appearance order. A non-empty result
// must block export.
func CheckDuplicates(items []*Item) []string {
	seen := make(map[string]int)
	var dups []string
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item.FinalName))
		seen[key]++
		if seen[key] == 2 {
			dups = append(dups, key)
		}
	}
	return dups
}
