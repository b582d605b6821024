// Package export renders sales as the semicolon separated report downloaded
// from the API and mirrored to the spreadsheet.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"commissions/internal/core"
)

const (
	Separator   = ';'
	DecimalMark = ','

	filenameLayout = "20060102_150405"
)

// Header is the fixed column order of every export.
var Header = []string{
	"ID_Venda",
	"Data",
	"Vendedor",
	"Cliente",
	"Valor_Venda",
	"Comissao_Percentual",
	"Valor_Comissao",
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// Row formats one sale in Header order using the export decimal mark.
func Row(s core.SaleView) []string {
	return []string{
		strconv.FormatInt(s.ID, 10),
		s.Date.String(),
		s.RepresentativeName,
		s.CustomerName,
		core.FormatDecimal(s.Value, DecimalMark),
		core.FormatDecimal(s.CommissionRateApplied, DecimalMark),
		core.FormatDecimal(s.CommissionValue, DecimalMark),
	}
}

// WriteCSV writes a UTF-8 BOM, the header and one row per sale.
func WriteCSV(w io.Writer, sales []core.SaleView) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = Separator
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range sales {
		if err := cw.Write(Row(s)); err != nil {
			return fmt.Errorf("write sale %d: %w", s.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Render returns the whole CSV document in memory.
func Render(sales []core.SaleView) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sales); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename names a report generated at t, e.g. relatorio_vendas_20240115_093000.csv.
func Filename(t time.Time) string {
	return "relatorio_vendas_" + t.Format(filenameLayout) + ".csv"
}
