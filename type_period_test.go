package brokerage

import "testing"

func TestNewPeriod(t *testing.T) {
	if _, err := NewPeriod(MustParseDate("2021-01-02"), MustParseDate("2021-01-01")); err == nil {
		t.Error("NewPeriod with first after last should fail")
	}
	p, err := NewPeriod(MustParseDate("2021-01-01"), MustParseDate("2021-01-01"))
	if err != nil {
		t.Fatalf("single-day period: %v", err)
	}
	if got := p.Days(); got != 1 {
		t.Errorf("Days() = %d, want 1", got)
	}
}

func TestPeriod_Boundaries(t *testing.T) {
	p, err := NewPeriod(MustParseDate("2021-01-01"), MustParseDate("2021-12-31"))
	if err != nil {
		t.Fatal(err)
	}

	if got := p.PrevDate(); got != MustParseDate("2020-12-31") {
		t.Errorf("PrevDate() = %v", got)
	}
	if got := p.NextDate(); got != MustParseDate("2022-01-01") {
		t.Errorf("NextDate() = %v", got)
	}
	if !p.Contains(MustParseDate("2021-01-01")) || !p.Contains(MustParseDate("2021-12-31")) {
		t.Error("Contains should include both boundaries")
	}
	if p.Contains(MustParseDate("2020-12-31")) || p.Contains(MustParseDate("2022-01-01")) {
		t.Error("Contains should exclude dates outside the period")
	}
	if got := p.Days(); got != 365 {
		t.Errorf("Days() = %d, want 365", got)
	}
	if got := p.Format(); got != "2021-01-01 - 2021-12-31" {
		t.Errorf("Format() = %q", got)
	}
}

func TestPeriod_Year(t *testing.T) {
	p, err := NewPeriod(MustParseDate("2020-06-01"), MustParseDate("2022-05-31"))
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		year      int
		wantFirst string
		wantLast  string
		wantErr   bool
	}{
		{year: 2020, wantFirst: "2020-06-01", wantLast: "2020-12-31"},
		{year: 2021, wantFirst: "2021-01-01", wantLast: "2021-12-31"},
		{year: 2022, wantFirst: "2022-01-01", wantLast: "2022-05-31"},
		{year: 2019, wantErr: true},
		{year: 2023, wantErr: true},
	}

	for _, tc := range testCases {
		got, err := p.Year(tc.year)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Year(%d) = %v, want error", tc.year, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Year(%d) returned error: %v", tc.year, err)
			continue
		}
		if got.First() != MustParseDate(tc.wantFirst) || got.Last() != MustParseDate(tc.wantLast) {
			t.Errorf("Year(%d) = %v, want %s - %s", tc.year, got, tc.wantFirst, tc.wantLast)
		}
	}
}
