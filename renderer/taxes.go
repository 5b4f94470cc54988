package renderer

import (
	"bytes"
	"slices"

	md "github.com/nao1215/markdown"

	"github.com/pvaldes/brokerage"
)

// TaxesMarkdown renders the tax due per payment date, earliest first.
func TaxesMarkdown(taxes map[brokerage.Date]brokerage.Money) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Tax Payments")

	dates := make([]brokerage.Date, 0, len(taxes))
	for date := range taxes {
		dates = append(dates, date)
	}
	slices.SortFunc(dates, brokerage.Date.Sub)

	rows := make([][]string, 0, len(dates))
	for _, date := range dates {
		rows = append(rows, []string{date.String(), taxes[date].Round().String()})
	}
	doc.Table(md.TableSet{
		Header: []string{"Payment date", "Tax to pay"},
		Rows:   rows,
	})

	return doc.String()
}
