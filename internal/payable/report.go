package payable

import (
	"fmt"
	"strings"
)

// Report serializes records into the plain-text export the dashboard offers
// for download/print. One line per record, pipe-separated, in list order.
func Report(records []Payable) string {
	var b strings.Builder
	b.WriteString("PAYABLES REPORT\n")
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n\n")
	for _, p := range records {
		fmt.Fprintf(&b, "%s | %s | %s | Due: %s | Status: %s\n",
			p.InvoiceNumber, p.Vendor, p.Amount.StringFixed(2), p.DueDate, p.Status)
	}
	return b.String()
}
