package planbudget

import (
	"fmt"
	"io"

	"github.com/Afrawles/planbudget/internal/report"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

func heading(task report.Task) string {
	return headingStyle.Render(fmt.Sprintf("Data for \"%s\":", task.Name))
}

// PrintResult prints the budget in currencyCode, the hours and the hours as days.
func PrintResult(w io.Writer, res report.Result, currencyCode string) {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "Currently used budget: %s\n", FormatAmount(p, res.BillableAmount, currencyCode))
	p.Fprintf(w, "Currently used hours: %.2f hours\n", res.TotalHours)
	p.Fprintf(w, "Currently used hours: %.2f days\n", res.Days())
}

// FormatAmount formats amount in currencyCode, falling back to "<amount> <code>"
// when the code is not an ISO 4217 currency.
func FormatAmount(p *message.Printer, amount float64, currencyCode string) string {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return p.Sprintf("%.2f %s", amount, currencyCode)
	}
	return p.Sprint(currency.Symbol(unit.Amount(amount)))
}
