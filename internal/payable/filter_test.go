package payable

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mkPayable(id, vendor, invoice, category string, amount string, due string, status Status) Payable {
	return Payable{
		ID:            id,
		OwnerID:       "owner-1",
		Vendor:        vendor,
		Amount:        decimal.RequireFromString(amount),
		DueDate:       due,
		Status:        status,
		Category:      category,
		InvoiceNumber: invoice,
	}
}

func sampleRecords() []Payable {
	return []Payable{
		mkPayable("1", "Apple Inc.", "INV-001", "Technology", "15000.00", "2025-02-01", StatusPending),
		mkPayable("2", "Google Cloud", "INV-002", "Cloud Services", "8500.50", "2025-01-28", StatusApproved),
		mkPayable("3", "Slack Technologies", "INV-003", "Software", "450.00", "2025-02-15", StatusPaid),
	}
}

func TestFilterSearchMatchesVendorInvoiceCategory(t *testing.T) {
	records := sampleRecords()

	cases := []struct {
		name   string
		search string
		want   []string // expected IDs
	}{
		{"empty matches all", "", []string{"1", "2", "3"}},
		{"vendor substring", "apple", []string{"1"}},
		{"vendor case insensitive", "GOOGLE", []string{"2"}},
		{"invoice number", "inv-003", []string{"3"}},
		{"category", "cloud serv", []string{"2"}},
		{"no match", "zzz", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter{Search: tc.search}.Apply(records)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d records, want %d", len(got), len(tc.want))
			}
			for i, p := range got {
				if p.ID != tc.want[i] {
					t.Errorf("record %d: got id %q, want %q", i, p.ID, tc.want[i])
				}
			}
		})
	}
}

func TestFilterStatusExactMatch(t *testing.T) {
	records := sampleRecords()

	if got := (Filter{Status: "pending"}).Apply(records); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("pending filter: got %v", got)
	}
	if got := (Filter{Status: StatusAll}).Apply(records); len(got) != 3 {
		t.Fatalf("all filter: got %d records, want 3", len(got))
	}
	if got := (Filter{}).Apply(records); len(got) != 3 {
		t.Fatalf("zero filter: got %d records, want 3", len(got))
	}
}

// The two predicates must commute: search-then-status equals status-then-search
// equals the combined filter.
func TestFilterPredicatesCommute(t *testing.T) {
	records := sampleRecords()
	f := Filter{Search: "in", Status: "pending"}

	combined := f.Apply(records)
	searchFirst := Filter{Status: f.Status}.Apply(Filter{Search: f.Search}.Apply(records))
	statusFirst := Filter{Search: f.Search}.Apply(Filter{Status: f.Status}.Apply(records))

	if len(combined) != len(searchFirst) || len(combined) != len(statusFirst) {
		t.Fatalf("lengths differ: combined=%d searchFirst=%d statusFirst=%d",
			len(combined), len(searchFirst), len(statusFirst))
	}
	for i := range combined {
		if combined[i].ID != searchFirst[i].ID || combined[i].ID != statusFirst[i].ID {
			t.Fatalf("order differs at %d: %q %q %q",
				i, combined[i].ID, searchFirst[i].ID, statusFirst[i].ID)
		}
	}
}

func TestSummarizeOverFilteredList(t *testing.T) {
	records := sampleRecords()

	// Three records, searchText matching one vendor: totals reflect only it.
	filtered := Filter{Search: "apple"}.Apply(records)
	if len(filtered) != 1 {
		t.Fatalf("filtered length = %d, want 1", len(filtered))
	}
	s := Summarize(filtered)
	if !s.Total.Equal(decimal.RequireFromString("15000.00")) {
		t.Errorf("total = %s, want 15000.00", s.Total)
	}
	if s.PendingCount != 1 {
		t.Errorf("pending count = %d, want 1", s.PendingCount)
	}
	if s.VendorCount != 1 {
		t.Errorf("vendor count = %d, want 1", s.VendorCount)
	}
}

func TestSummarizeDistinctVendors(t *testing.T) {
	records := sampleRecords()
	records = append(records, mkPayable("4", "Apple Inc.", "INV-004", "Technology", "1.00", "2025-03-01", StatusPaid))

	s := Summarize(records)
	if s.VendorCount != 3 {
		t.Errorf("vendor count = %d, want 3 (duplicate vendor counted once)", s.VendorCount)
	}
	if s.PendingTotal.Equal(decimal.Zero) {
		t.Error("pending total should include the pending record")
	}
	if !s.Total.Equal(decimal.RequireFromString("23951.50")) {
		t.Errorf("total = %s, want 23951.50", s.Total)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if !s.Total.Equal(decimal.Zero) || s.PendingCount != 0 || s.VendorCount != 0 {
		t.Errorf("empty stats not zero: %+v", s)
	}
}
