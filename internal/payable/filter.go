package payable

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StatusAll disables status filtering.
const StatusAll = "all"

// Filter is the active search/status filter. The zero value matches
// everything.
type Filter struct {
	Search string
	Status string // StatusAll or one exact Status value; "" means all
}

// Matches applies both predicates. Search is a case-insensitive substring
// match against vendor, invoice number, and category; status is an exact
// match.
func (f Filter) Matches(p Payable) bool {
	return f.matchesSearch(p) && f.matchesStatus(p)
}

func (f Filter) matchesSearch(p Payable) bool {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Vendor), q) ||
		strings.Contains(strings.ToLower(p.InvoiceNumber), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}

func (f Filter) matchesStatus(p Payable) bool {
	if f.Status == "" || f.Status == StatusAll {
		return true
	}
	return string(p.Status) == f.Status
}

// Apply returns the records matching f, preserving input order.
func (f Filter) Apply(records []Payable) []Payable {
	var out []Payable
	for _, p := range records {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Stats are the dashboard header figures, always computed over the filtered
// list. No caching: the expected data volume makes recomputation free.
type Stats struct {
	Total         decimal.Decimal
	PendingTotal  decimal.Decimal
	PendingCount  int
	VendorCount   int
	VisibleRecord int
}

// Summarize computes totals and counts for records.
func Summarize(records []Payable) Stats {
	s := Stats{Total: decimal.Zero, PendingTotal: decimal.Zero}
	vendors := make(map[string]struct{})
	for _, p := range records {
		s.Total = s.Total.Add(p.Amount)
		if p.Status == StatusPending {
			s.PendingTotal = s.PendingTotal.Add(p.Amount)
			s.PendingCount++
		}
		vendors[p.Vendor] = struct{}{}
	}
	s.VendorCount = len(vendors)
	s.VisibleRecord = len(records)
	return s
}
