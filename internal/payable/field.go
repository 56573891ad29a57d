package payable

import "github.com/shopspring/decimal"

// Field names the editable columns of a payable. It doubles as the edit
// target discriminator in the UI and the column selector for single-field
// updates.
type Field string

const (
	FieldVendor        Field = "vendor"
	FieldAmount        Field = "amount"
	FieldDueDate       Field = "due_date"
	FieldStatus        Field = "status"
	FieldCategory      Field = "category"
	FieldInvoiceNumber Field = "invoice_number"
	FieldNotes         Field = "notes"
	FieldContact       Field = "contact"
)

// FieldUpdate is one permitted single-field mutation. Using a closed set of
// variants keeps invalid column names out of the store entirely.
type FieldUpdate interface {
	Field() Field
}

type VendorUpdate struct{ Value string }

type AmountUpdate struct{ Value decimal.Decimal }

type DueDateUpdate struct{ Value string }

type StatusUpdate struct{ Value Status }

type CategoryUpdate struct{ Value string }

type InvoiceNumberUpdate struct{ Value string }

type NotesUpdate struct{ Value string }

type ContactUpdate struct{ Value string }

func (VendorUpdate) Field() Field        { return FieldVendor }
func (AmountUpdate) Field() Field        { return FieldAmount }
func (DueDateUpdate) Field() Field       { return FieldDueDate }
func (StatusUpdate) Field() Field        { return FieldStatus }
func (CategoryUpdate) Field() Field      { return FieldCategory }
func (InvoiceNumberUpdate) Field() Field { return FieldInvoiceNumber }
func (NotesUpdate) Field() Field         { return FieldNotes }
func (ContactUpdate) Field() Field       { return FieldContact }

// ParseField converts free text typed into the cell for field f into the
// matching update variant.
//
// Amount keeps the historical sharp edge: unparseable input commits as zero
// rather than failing. Callers that want to warn about it can check with
// AmountParsedClean first.
func ParseField(f Field, text string) FieldUpdate {
	switch f {
	case FieldAmount:
		return AmountUpdate{Value: ParseAmount(text)}
	case FieldDueDate:
		return DueDateUpdate{Value: text}
	case FieldStatus:
		return StatusUpdate{Value: Status(text)}
	case FieldVendor:
		return VendorUpdate{Value: text}
	case FieldCategory:
		return CategoryUpdate{Value: text}
	case FieldInvoiceNumber:
		return InvoiceNumberUpdate{Value: text}
	case FieldNotes:
		return NotesUpdate{Value: text}
	case FieldContact:
		return ContactUpdate{Value: text}
	}
	return NotesUpdate{Value: text}
}

// ParseAmount parses a currency amount; bad input yields zero.
func ParseAmount(text string) decimal.Decimal {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// AmountParsedClean reports whether text parses as a decimal amount.
func AmountParsedClean(text string) bool {
	_, err := decimal.NewFromString(text)
	return err == nil
}
