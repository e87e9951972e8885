package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Ticker identifies a tradable instrument, or Cash.
type Ticker string

// Cash is the pseudo-ticker for uninvested currency. Its unit price is 1
// and it is never looked up in a PriceTable.
const Cash Ticker = "CASH"

// NormalizeTicker trims and upper-cases a raw symbol.
func NormalizeTicker(s string) Ticker {
	return Ticker(strings.ToUpper(strings.TrimSpace(s)))
}

func (t Ticker) IsCash() bool { return t == Cash }

func (t Ticker) String() string { return string(t) }

// PriceTable maps a ticker to its latest known unit price.
type PriceTable map[Ticker]decimal.Decimal

// Clone returns an independent copy of the table.
func (p PriceTable) Clone() PriceTable {
	out := make(PriceTable, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
