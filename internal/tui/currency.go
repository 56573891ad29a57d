package tui

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// moneyFormatter renders amounts with the configured locale's grouping and
// the currency symbol, e.g. "₱15,000.00" for en-PH/PHP.
type moneyFormatter struct {
	printer *message.Printer
	unit    currency.Unit
}

func newMoneyFormatter(locale, code string) moneyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	return moneyFormatter{printer: message.NewPrinter(tag), unit: unit}
}

func (f moneyFormatter) Format(amount decimal.Decimal) string {
	v, _ := amount.Float64()
	return f.printer.Sprintf("%v", currency.Symbol(f.unit.Amount(v)))
}
