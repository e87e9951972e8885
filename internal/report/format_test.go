package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"trading-experiment/internal/model"
	"trading-experiment/internal/valuation"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"46081.57", "$46,081.57"},
		{"-16690.29", "-$16,690.29"},
		{"0", "$0.00"},
		{"1", "$1.00"},
		{"62771.86", "$62,771.86"},
		{"0.005", "$0.01"},
		{"1234567.891", "$1,234,567.89"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Currency(d(tt.in)); got != tt.want {
				t.Errorf("Currency(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSignedFormatting(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"positive amount", SignedCurrency(d("10")), "+$10.00"},
		{"zero amount", SignedCurrency(decimal.Zero), "+$0.00"},
		{"negative amount", SignedCurrency(d("-16690.29")), "-$16,690.29"},
		{"positive pct", SignedPercent(d("1.234")), "+1.23%"},
		{"zero pct", SignedPercent(decimal.Zero), "+0.00%"},
		{"tiny negative rounds to zero", SignedPercent(d("-0.001")), "+0.00%"},
		{"tiny negative amount", SignedCurrency(d("-0.001")), "+$0.00"},
		{"tiny negative return line", ReturnLine(valuation.Return{Absolute: d("-0.001"), Percent: d("-0.000002")}), "+$0.00 (+0.00%)"},
		{"negative pct", SignedPercent(d("-26.5888")), "-26.59%"},
		{"weight", Weight(d("62.0533")), "62.1%"},
		{"return line", ReturnLine(valuation.Return{Absolute: d("-16690.29"), Percent: d("-26.5888")}), "-$16,690.29 (-26.59%)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestLeaderLine(t *testing.T) {
	if got := LeaderLine(valuation.Gap{Leader: model.Claude}); got != "Claude ahead" {
		t.Errorf("got %q", got)
	}
	if got := LeaderLine(valuation.Gap{Tie: true}); got != "Tied" {
		t.Errorf("got %q", got)
	}
}

func TestPositionQuantity(t *testing.T) {
	cash := valuation.RankedPosition{Ticker: model.Cash, Quantity: d("10749.07"), Price: d("1")}
	if got := PositionQuantity(cash); got != "$10,749.07" {
		t.Errorf("cash = %q", got)
	}
	amd := valuation.RankedPosition{Ticker: "AMD", Quantity: d("133"), Price: d("215")}
	if got := PositionQuantity(amd); got != "133 @ $215.00" {
		t.Errorf("amd = %q", got)
	}
}
