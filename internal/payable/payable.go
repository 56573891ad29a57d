// Package payable holds the domain model for vendor invoices and the pure
// functions (filtering, calendar bucketing, derived stats) shared by every
// view.
package payable

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical date-only form used for due dates everywhere:
// storage, filtering, and calendar bucketing.
const DateLayout = "2006-01-02"

// Status is the payment state of a payable. Transitions are deliberately
// unrestricted: paid -> pending is as valid as pending -> approved.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
)

// Statuses lists all states in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusPaid}
}

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusPaid:
		return true
	}
	return false
}

// Payable is a vendor invoice owed by the authenticated owner.
type Payable struct {
	ID            string
	OwnerID       string
	Vendor        string
	Amount        decimal.Decimal
	DueDate       string // DateLayout
	Status        Status
	Category      string
	InvoiceNumber string
	Notes         string
	Contact       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Draft carries caller-supplied values for a new payable. The store assigns
// ID, CreatedAt and UpdatedAt.
type Draft struct {
	Vendor        string
	Amount        decimal.Decimal
	DueDate       string
	Status        Status
	Category      string
	InvoiceNumber string
	Notes         string
	Contact       string
}

// NewDraft returns the defaults used when the user adds a record from the
// dashboard: placeholder vendor, zero amount, due today, pending.
func NewDraft(now time.Time, invoiceNumber string) Draft {
	return Draft{
		Vendor:        "New Vendor",
		Amount:        decimal.Zero,
		DueDate:       now.Format(DateLayout),
		Status:        StatusPending,
		Category:      "General",
		InvoiceNumber: invoiceNumber,
	}
}
