package brokerage

import "testing"

func TestCashFlowEvent_Validate(t *testing.T) {
	day := MustParseDate("2021-02-01")
	sibling := M(-0.35, "USD")

	testCases := []struct {
		name    string
		ev      CashFlowEvent
		wantErr bool
	}{
		{
			name: "valid deposit",
			ev:   NewCashFlow(day, OpDeposit, M(500, "USD"), "wire in"),
		},
		{
			name: "valid two-leg trade",
			ev:   NewTradeCashFlow(day, OpSellTrade, M(100, "EUR"), sibling, ""),
		},
		{
			name:    "zero amount",
			ev:      NewCashFlow(day, OpDeposit, M(0, "USD"), ""),
			wantErr: true,
		},
		{
			name:    "sibling leg on a non-trade",
			ev:      CashFlowEvent{Date: day, Kind: OpDividend, Amount: M(5, "USD"), Sibling: &sibling},
			wantErr: true,
		},
		{
			name:    "unknown operation kind",
			ev:      CashFlowEvent{Date: day, Kind: OperationKind("transfer"), Amount: M(5, "USD")},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.ev.Validate()
			if tc.wantErr {
				if !IsDataError(err) {
					t.Errorf("got %v, want DataError", err)
				}
				return
			}
			if err != nil {
				t.Errorf("got %v, want valid", err)
			}
		})
	}
}

func TestNewTradeCashFlow_SiblingDropped(t *testing.T) {
	day := MustParseDate("2021-02-01")

	// a same-currency sibling belongs in the primary leg and is dropped.
	ev := NewTradeCashFlow(day, OpBuyTrade, M(-905, "USD"), M(-1.5, "USD"), "")
	if ev.Sibling != nil {
		t.Errorf("same-currency sibling = %v, want none", ev.Sibling)
	}
	// so is a zero one.
	ev = NewTradeCashFlow(day, OpBuyTrade, M(-905, "USD"), M(0, ""), "")
	if ev.Sibling != nil {
		t.Errorf("zero sibling = %v, want none", ev.Sibling)
	}
}
