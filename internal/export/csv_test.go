package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"commissions/internal/core"
)

func sampleSales() []core.SaleView {
	return []core.SaleView{
		{
			Sale: core.Sale{
				ID:                    2,
				RepresentativeID:      1,
				CustomerID:            1,
				Value:                 1000,
				Date:                  core.NewDate(2024, 1, 20),
				CommissionRateApplied: 12.5,
				CommissionValue:       125,
			},
			RepresentativeName: "Ana",
			CustomerName:       "Loja; Centro",
		},
		{
			Sale: core.Sale{
				ID:                    1,
				RepresentativeID:      2,
				CustomerID:            1,
				Value:                 99.9,
				Date:                  core.NewDate(2024, 1, 5),
				CommissionRateApplied: 0,
				CommissionValue:       0,
			},
			RepresentativeName: "Bob",
			CustomerName:       "Acme",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleSales()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, bom) {
		t.Fatal("expected UTF-8 BOM prefix")
	}

	lines := strings.Split(strings.TrimSuffix(string(out[len(bom):]), "\n"), "\n")
	want := []string{
		"ID_Venda;Data;Vendedor;Cliente;Valor_Venda;Comissao_Percentual;Valor_Comissao",
		`2;2024-01-20;Ana;"Loja; Centro";1000;12,5;125`,
		"1;2024-01-05;Bob;Acme;99,9;0;0",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRenderEmptyHasHeaderOnly(t *testing.T) {
	out, err := Render(nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := string(out[len(bom):]); got != strings.Join(Header, ";")+"\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRowMatchesHeader(t *testing.T) {
	row := Row(sampleSales()[0])
	if len(row) != len(Header) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(Header))
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2024, 1, 15, 9, 30, 5, 0, time.UTC)
	if got := Filename(ts); got != "relatorio_vendas_20240115_093005.csv" {
		t.Fatalf("Filename() = %q", got)
	}
}
