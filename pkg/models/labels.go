package models

import (
	"strings"

	"github.com/arbovm/levenshtein"
)

// Class labels produced by the two models
const (
	LabelNonDemented      = "NonDemented"
	LabelDemented         = "Demented"
	LabelVeryMildDemented = "VeryMildDemented"
	LabelMildDemented     = "MildDemented"
	LabelModerateDemented = "ModerateDemented"
)

var knownLabels = []string{
	LabelNonDemented,
	LabelDemented,
	LabelVeryMildDemented,
	LabelMildDemented,
	LabelModerateDemented,
}

// maxLabelDistance is the largest edit distance still mapped onto a known label
const maxLabelDistance = 2

// CanonicalLabel maps a server label onto a known class label. Case, spaces,
// underscores and hyphens are ignored and small misspellings are tolerated.
// Labels that match nothing are returned unchanged.
func CanonicalLabel(label string) string {
	norm := normalizeLabel(label)
	if norm == "" {
		return label
	}

	best := ""
	bestDist := maxLabelDistance + 1
	for _, known := range knownLabels {
		d := levenshtein.Distance(norm, normalizeLabel(known))
		if d < bestDist {
			best, bestDist = known, d
		}
	}
	if best == "" {
		return label
	}
	return best
}

func normalizeLabel(label string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(label)))
}
