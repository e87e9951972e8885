package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"trading-experiment/internal/valuation"
)

// WritePositionsCSV writes every trader's ranked positions to path,
// creating parent directories as needed.
func WritePositionsCSV(path string, r valuation.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodePositionsCSV(f, r)
}

// EncodePositionsCSV writes the positions table to w.
func EncodePositionsCSV(w io.Writer, r valuation.Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"trader",
		"rank",
		"ticker",
		"quantity",
		"price",
		"value",
		"weight_pct",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, tr := range r.Traders {
		for i, p := range tr.Positions {
			row := []string{
				string(tr.Trader),
				strconv.Itoa(i + 1),
				p.Ticker.String(),
				p.Quantity.String(),
				p.Price.StringFixed(2),
				p.Value.StringFixed(2),
				p.Weight.StringFixed(4),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
