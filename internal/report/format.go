// Package report renders valuation results as text: currency strings,
// signed returns, trade log lines, plain tables and CSV.
package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"trading-experiment/internal/model"
	"trading-experiment/internal/valuation"
)

const currencyCode = "USD"

// Currency formats d as US dollars with two decimals and thousands
// separators, e.g. "$46,081.57" or "-$16,690.29".
func Currency(d decimal.Decimal) string {
	cur := money.GetCurrency(currencyCode)
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), currencyCode).Display()
}

// SignedCurrency prefixes non-negative amounts with "+". The sign is
// decided on the amount rounded to cents.
func SignedCurrency(d decimal.Decimal) string {
	if d.Round(2).IsNegative() {
		return Currency(d)
	}
	return "+" + Currency(d)
}

// Percent formats d with two decimals, e.g. "-26.59%".
func Percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

// SignedPercent prefixes non-negative percentages with "+". The sign is
// decided on the rounded value so "-0.001" renders as "+0.00%".
func SignedPercent(d decimal.Decimal) string {
	r := d.Round(2)
	if r.IsNegative() {
		return Percent(r)
	}
	return "+" + Percent(r)
}

// Weight formats a position weight with one decimal, e.g. "62.1%".
func Weight(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// ReturnLine renders "+$1,234.56 (+1.97%)".
func ReturnLine(r valuation.Return) string {
	return SignedCurrency(r.Absolute) + " (" + SignedPercent(r.Percent) + ")"
}

// LeaderLine renders the gap caption, "Claude ahead" or "Tied".
func LeaderLine(g valuation.Gap) string {
	if g.Tie {
		return "Tied"
	}
	return g.Leader.DisplayName() + " ahead"
}

// PositionQuantity renders the quantity column: cash as an amount, other
// tickers as "133 @ $215.00".
func PositionQuantity(p valuation.RankedPosition) string {
	if p.Ticker.IsCash() {
		return Currency(p.Quantity)
	}
	return p.Quantity.StringFixed(0) + " @ " + Currency(p.Price)
}

// TraderIcon is the marker shown in front of a trader's trade lines.
func TraderIcon(t model.Trader) string {
	if t == model.Wiebe {
		return "🧑"
	}
	return "🤖"
}
