package brokerage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func year2021(t *testing.T) Period {
	t.Helper()
	p, err := NewPeriod(MustParseDate("2021-01-01"), MustParseDate("2021-12-31"))
	require.NoError(t, err)
	return p
}

func TestSummarizeCashFlows(t *testing.T) {
	period := year2021(t)
	events := []CashFlowEvent{
		NewCashFlow(MustParseDate("2021-02-01"), OpDeposit, M(500, "USD"), "wire in"),
		NewCashFlow(MustParseDate("2021-06-15"), OpWithdrawal, M(-200, "USD"), "wire out"),
	}
	starting := []Money{M(1000, "USD")}
	ending := []Money{M(1300, "USD")}

	report := SummarizeCashFlows(events, period, starting, ending)

	s := report.Summary("USD")
	require.NotNil(t, s)
	assert.True(t, s.Starting.Equal(M(1000, "USD")), "starting = %s", s.Starting)
	assert.True(t, s.Deposits.Equal(M(500, "USD")), "deposits = %s", s.Deposits)
	assert.True(t, s.Withdrawals.Equal(M(200, "USD")), "withdrawals = %s", s.Withdrawals)
	assert.True(t, s.Ending.Equal(M(1300, "USD")), "ending = %s", s.Ending)
	assert.Len(t, report.Details, 2)
}

func TestSummarizeCashFlows_PeriodFilter(t *testing.T) {
	period := year2021(t)
	events := []CashFlowEvent{
		NewCashFlow(MustParseDate("2020-12-31"), OpDeposit, M(999, "USD"), "before"),
		NewCashFlow(MustParseDate("2021-03-01"), OpDeposit, M(100, "USD"), "inside"),
		NewCashFlow(MustParseDate("2022-01-01"), OpDeposit, M(999, "USD"), "after"),
	}

	report := SummarizeCashFlows(events, period, nil, nil)

	s := report.Summary("USD")
	require.NotNil(t, s)
	assert.True(t, s.Deposits.Equal(M(100, "USD")), "deposits = %s", s.Deposits)
	assert.Len(t, report.Details, 1)
	// no observed ending balance: the computed one stands in.
	assert.True(t, s.Ending.Equal(M(100, "USD")), "ending = %s", s.Ending)
}

func TestSummarizeCashFlows_TwoLegTrade(t *testing.T) {
	period := year2021(t)
	events := []CashFlowEvent{
		NewTradeCashFlow(MustParseDate("2021-05-12"), OpSellTrade,
			M(100, "EUR"), M(-0.35, "USD"), "sell 4 x EXH4 25 EUR"),
	}

	report := SummarizeCashFlows(events, period, nil, nil)

	require.Len(t, report.Summaries, 2)
	eur := report.Summary("EUR")
	require.NotNil(t, eur)
	assert.True(t, eur.Deposits.Equal(M(100, "EUR")), "EUR deposits = %s", eur.Deposits)
	usd := report.Summary("USD")
	require.NotNil(t, usd)
	assert.True(t, usd.Withdrawals.Equal(M(0.35, "USD")), "USD withdrawals = %s", usd.Withdrawals)
	assert.Equal(t, []string{"EUR", "USD"}, report.Currencies())
}

func TestSummarizeCashFlows_ConservationTolerance(t *testing.T) {
	period := year2021(t)
	events := []CashFlowEvent{
		NewCashFlow(MustParseDate("2021-02-01"), OpDeposit, M(500, "USD"), ""),
	}
	starting := []Money{M(1000, "USD")}

	assert.NotPanics(t, func() {
		SummarizeCashFlows(events, period, starting, []Money{M(1500.01, "USD")})
	}, "rounding noise within tolerance must pass")

	assert.Panics(t, func() {
		SummarizeCashFlows(events, period, starting, []Money{M(1500.02, "USD")})
	}, "a gap beyond tolerance is a missing event")
}

func TestSummarizeCashFlows_EndingOnlyCurrency(t *testing.T) {
	period := year2021(t)

	// an observed ending balance in a currency with no events and no
	// starting balance must still be conservation-checked, not dropped.
	assert.Panics(t, func() {
		SummarizeCashFlows(nil, period, nil, []Money{M(500, "EUR")})
	})

	report := SummarizeCashFlows(nil, period, nil, []Money{M(0, "EUR")})
	s := report.Summary("EUR")
	require.NotNil(t, s)
	assert.True(t, s.Ending.IsZero())
}

func TestSummarizeCashFlows_UnaccountedEventPanics(t *testing.T) {
	period := year2021(t)
	events := []CashFlowEvent{
		NewCashFlow(MustParseDate("2021-02-01"), OpDeposit, M(500, "USD"), ""),
		NewCashFlow(MustParseDate("2021-03-01"), OpFee, M(-7, "USD"), "custody fee"),
	}
	starting := []Money{M(1000, "USD")}

	assert.NotPanics(t, func() {
		SummarizeCashFlows(events, period, starting, []Money{M(1493, "USD")})
	})

	// an ending balance that does not account for the fee breaks conservation.
	assert.Panics(t, func() {
		SummarizeCashFlows(events, period, starting, []Money{M(1500, "USD")})
	})
}

func TestNewCashFlowReport_Boundaries(t *testing.T) {
	period := year2021(t)
	full, err := NewPeriod(MustParseDate("2020-01-01"), MustParseDate("2021-12-31"))
	require.NoError(t, err)
	statement := NewBrokerStatement(full)
	statement.CashFlows = []CashFlowEvent{
		NewCashFlow(MustParseDate("2021-02-01"), OpDeposit, M(500, "USD"), ""),
	}
	statement.HistoricalAssets = map[Date]NetAssets{
		MustParseDate("2020-12-31"): {Cash: []Money{M(1000, "USD")}},
		MustParseDate("2021-12-31"): {Cash: []Money{M(1500, "USD")}},
	}

	report := NewCashFlowReport(statement, period)

	s := report.Summary("USD")
	require.NotNil(t, s)
	assert.True(t, s.Starting.Equal(M(1000, "USD")), "starting = %s", s.Starting)
	assert.True(t, s.Ending.Equal(M(1500, "USD")), "ending = %s", s.Ending)
}

func TestNewOtherAssetsReport(t *testing.T) {
	full, err := NewPeriod(MustParseDate("2020-01-01"), MustParseDate("2021-12-31"))
	require.NoError(t, err)
	statement := NewBrokerStatement(full)
	statement.CashFlows = []CashFlowEvent{
		NewCashFlow(MustParseDate("2021-05-12"), OpBuyTrade, M(-905, "USD"), "buy 10 x VNQ 90.50 USD"),
		NewCashFlow(MustParseDate("2021-08-20"), OpSellTrade, M(300, "USD"), "sell 3 x VNQ 100 USD"),
		NewCashFlow(MustParseDate("2021-09-01"), OpDeposit, M(50, "USD"), "ignored"),
	}
	endValue := M(700, "USD")
	statement.HistoricalAssets = map[Date]NetAssets{
		MustParseDate("2021-12-31"): {Other: &endValue},
	}

	rates := NewRateTable()
	period := year2021(t)

	report, err := NewOtherAssetsReport(statement, period, rates, "USD")
	require.NoError(t, err)

	assert.Equal(t, "USD", report.Currency)
	require.NotNil(t, report.End)
	assert.True(t, report.End.Equal(endValue), "end = %s", report.End)
	// the period does not start at statement coverage start and no snapshot
	// exists for the day before: the starting valuation is unknown.
	assert.Nil(t, report.Start)
	assert.True(t, report.Missing())
	assert.Equal(t, []Date{MustParseDate("2021-12-31")}, report.AvailableDates)

	assert.True(t, report.Deposits.Equal(M(905, "USD")), "deposits = %s", report.Deposits)
	assert.True(t, report.Withdrawals.Equal(M(-300, "USD")), "withdrawals = %s", report.Withdrawals)
}

func TestNewOtherAssetsReport_ImplicitZeroStart(t *testing.T) {
	period := year2021(t)
	statement := NewBrokerStatement(period)
	endValue := M(905, "USD")
	statement.HistoricalAssets = map[Date]NetAssets{
		MustParseDate("2021-12-31"): {Other: &endValue},
	}

	report, err := NewOtherAssetsReport(statement, period, NewRateTable(), "USD")
	require.NoError(t, err)

	// period starts exactly at statement coverage start: no holdings can
	// predate it, the starting valuation is zero, not unknown.
	require.NotNil(t, report.Start)
	assert.True(t, report.Start.IsZero())
	assert.False(t, report.Missing())
}
