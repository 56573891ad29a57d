package payable

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// similarVendorThreshold is the minimum similarity ratio for a hint.
const similarVendorThreshold = 0.72

// SimilarVendor looks for an existing vendor name close to candidate and
// returns it when found. Used after a vendor commit to hint at a likely
// duplicate ("Appel Inc." vs "Apple Inc."); advisory only, never blocks the
// edit. Exact matches (ignoring case) are not hints.
func SimilarVendor(records []Payable, candidate string) (string, bool) {
	c := strings.TrimSpace(candidate)
	if c == "" {
		return "", false
	}
	best := ""
	bestRatio := similarVendorThreshold
	for _, p := range records {
		v := strings.TrimSpace(p.Vendor)
		if v == "" || strings.EqualFold(v, c) {
			continue
		}
		if r := similarity(strings.ToLower(v), strings.ToLower(c)); r > bestRatio {
			best, bestRatio = v, r
		}
	}
	return best, best != ""
}

func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
