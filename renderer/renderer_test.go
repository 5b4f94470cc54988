package renderer

import (
	"strings"
	"testing"

	"github.com/pvaldes/brokerage"
)

func period2021(t *testing.T) brokerage.Period {
	t.Helper()
	p, err := brokerage.NewPeriod(
		brokerage.MustParseDate("2021-01-01"),
		brokerage.MustParseDate("2021-12-31"))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCashFlowMarkdown(t *testing.T) {
	period := period2021(t)
	events := []brokerage.CashFlowEvent{
		brokerage.NewCashFlow(brokerage.MustParseDate("2021-02-01"),
			brokerage.OpDeposit, brokerage.M(500, "USD"), "wire in"),
		brokerage.NewTradeCashFlow(brokerage.MustParseDate("2021-05-12"),
			brokerage.OpSellTrade, brokerage.M(100, "EUR"), brokerage.M(-0.35, "USD"),
			"sell 4 x EXH4 25 EUR"),
	}
	report := brokerage.SummarizeCashFlows(events, period, nil, nil)

	got := CashFlowMarkdown(report)

	for _, want := range []string{
		"# Cash Flow 2021-01-01 - 2021-12-31",
		"## Details",
		"2021-01-01",
		"2021-12-31",
		"Deposits",
		"Withdrawals",
		"wire in",
		"sell 4 x EXH4 25 EUR",
		"EUR",
		"USD",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestOtherAssetsMarkdown(t *testing.T) {
	period := period2021(t)
	end := brokerage.M(905, "USD")
	report := &brokerage.OtherAssetsReport{
		Currency:    "USD",
		End:         &end,
		Deposits:    brokerage.M(905, "USD"),
		Withdrawals: brokerage.M(0, "USD"),
	}

	got := OtherAssetsMarkdown(report, period)

	if !strings.Contains(got, "# Other Financial Assets 2021-01-01 - 2021-12-31") {
		t.Errorf("missing title:\n%s", got)
	}
	// an unknown starting valuation renders as an empty cell, not as zero.
	for _, line := range strings.Split(got, "\n") {
		if strings.Contains(line, "2021-01-01") && strings.Contains(line, "$") {
			t.Errorf("start boundary rendered as a value: %q", line)
		}
	}
}

func TestTaxesMarkdown(t *testing.T) {
	taxes := map[brokerage.Date]brokerage.Money{
		brokerage.MustParseDate("2023-03-15"): brokerage.M(65, "RUB"),
		brokerage.MustParseDate("2022-03-15"): brokerage.M(130, "RUB"),
	}

	got := TaxesMarkdown(taxes)

	if !strings.Contains(got, "# Tax Payments") {
		t.Errorf("missing title:\n%s", got)
	}
	// earliest payment date first.
	first := strings.Index(got, "2022-03-15")
	second := strings.Index(got, "2023-03-15")
	if first < 0 || second < 0 || first > second {
		t.Errorf("dates not in chronological order:\n%s", got)
	}
}
