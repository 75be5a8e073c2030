package importer

import "strings"

// Profile describes the column layout of an inventory CSV.
// Adding a new layout is just adding a new Profile to the profiles slice.
type Profile struct {
	Name string
	// Itemized profiles carry one row per copy, identified by barcode.
	Itemized bool
	Edition  []string
	Count    []string // unused when Itemized
	Barcode  []string // used when Itemized
	Location []string
	Cond     []string
}

// requiredCols returns the column alias groups that must all be present for this profile to match.
func (p Profile) requiredCols() [][]string {
	if p.Itemized {
		return [][]string{p.Edition, p.Barcode}
	}

	return [][]string{p.Edition, p.Count}
}

// profiles is the ordered list of layouts tried during auto-detection.
// Itemized comes first so a sheet with both barcode and count columns is read per copy.
var profiles = []Profile{
	{
		Name:     "itemized",
		Itemized: true,
		Edition:  []string{"edition_id", "edition"},
		Barcode:  []string{"barcode", "code"},
		Location: []string{"location", "shelf"},
		Cond:     []string{"condition"},
	},
	{
		Name:     "batch",
		Edition:  []string{"edition_id", "edition"},
		Count:    []string{"copies", "count", "quantity", "qty"},
		Location: []string{"location", "shelf"},
		Cond:     []string{"condition"},
	},
}

// normalizeHeader folds "Edition ID", "edition-id" and "EDITION_ID" into "edition_id".
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	return strings.NewReplacer(" ", "_", "-", "_", ".", "").Replace(s)
}
