// Package renderer formats report structs into markdown for the CLI.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/pvaldes/brokerage"
)

// CashFlowMarkdown renders the per-currency cash summary and the itemized
// detail table to a markdown string.
func CashFlowMarkdown(r *brokerage.CashFlowReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Cash Flow %s", r.Period.Format()))

	currencies := r.Currencies()

	header := append([]string{""}, currencies...)
	starting := []string{r.Period.First().String()}
	deposits := []string{"Deposits"}
	withdrawals := []string{"Withdrawals"}
	ending := []string{r.Period.Last().String()}
	for _, s := range r.Summaries {
		starting = append(starting, s.Starting.Round().String())
		deposits = append(deposits, s.Deposits.Round().String())
		withdrawals = append(withdrawals, s.Withdrawals.Round().Neg().String())
		ending = append(ending, s.Ending.Round().String())
	}
	doc.Table(md.TableSet{
		Header: header,
		Rows:   [][]string{starting, deposits, withdrawals, ending},
	})

	doc.H2("Details")
	doc.Table(detailsTable(r, currencies))

	return doc.String()
}

// detailsTable builds the itemized table: one row per event, the amount of
// each leg under its own currency column.
func detailsTable(r *brokerage.CashFlowReport, currencies []string) md.TableSet {
	rows := make([][]string, 0, len(r.Details))
	for _, ev := range r.Details {
		row := make([]string, 0, 2+len(currencies))
		row = append(row, ev.Date.String(), ev.Description)
		for _, currency := range currencies {
			switch {
			case ev.Amount.Currency() == currency:
				row = append(row, ev.Amount.String())
			case ev.Sibling != nil && ev.Sibling.Currency() == currency:
				row = append(row, ev.Sibling.String())
			default:
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return md.TableSet{
		Header: append([]string{"Date", "Operation"}, currencies...),
		Rows:   rows,
	}
}

// OtherAssetsMarkdown renders the non-cash assets cross-check table. Unknown
// boundary valuations render as empty cells, never as zero.
func OtherAssetsMarkdown(r *brokerage.OtherAssetsReport, period brokerage.Period) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Other Financial Assets %s", period.Format()))

	boundary := func(value *brokerage.Money) string {
		if value == nil {
			return ""
		}
		return value.String()
	}
	doc.Table(md.TableSet{
		Header: []string{"", r.Currency},
		Rows: [][]string{
			{period.First().String(), boundary(r.Start)},
			{"Deposits", r.Deposits.String()},
			{"Withdrawals", r.Withdrawals.String()},
			{period.Last().String(), boundary(r.End)},
		},
	})

	return doc.String()
}
