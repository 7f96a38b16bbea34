package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// Spreadsheet export contract.
const (
	ExportFileName    = "relatorio_vendas.xlsx"
	ExportCSVFileName = "relatorio_vendas.csv"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	SheetDetail = "Detalhado"
	SheetTotals = "Totais por Dia"
)

var (
	detailHeader = []any{"data", "nome", "quantidade", "preco_unit", "total"}
	totalsHeader = []any{"Data", "Total do Dia"}
)

const (
	dateNumFmt  = "dd/mm/yyyy"
	moneyNumFmt = "#,##0.00"
)

// ExportSpreadsheet builds the two-sheet report workbook: the raw rows on
// "Detalhado" and the per-day sums on "Totais por Dia".
func ExportSpreadsheet(detail []ReportRow, totals []DayTotal) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetDetail); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetTotals); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(dateNumFmt)})
	if err != nil {
		return nil, fmt.Errorf("date style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(moneyNumFmt)})
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}

	detailRows := make([][]any, 0, len(detail))
	for _, r := range detail {
		detailRows = append(detailRows, []any{
			r.Date,
			r.ProductName,
			r.Quantity,
			r.UnitPrice.InexactFloat64(),
			r.LineTotal.InexactFloat64(),
		})
	}
	if err := writeSheet(f, SheetDetail, detailHeader, detailRows); err != nil {
		return nil, err
	}

	totalRows := make([][]any, 0, len(totals))
	for _, t := range totals {
		totalRows = append(totalRows, []any{t.Date, t.Total.InexactFloat64()})
	}
	if err := writeSheet(f, SheetTotals, totalsHeader, totalRows); err != nil {
		return nil, err
	}

	styles := []struct {
		sheet    string
		from, to string
		rows     int
		style    int
	}{
		{SheetDetail, "A", "A", len(detail), dateStyle},
		{SheetDetail, "D", "E", len(detail), moneyStyle},
		{SheetTotals, "A", "A", len(totals), dateStyle},
		{SheetTotals, "B", "B", len(totals), moneyStyle},
	}
	for _, s := range styles {
		if s.rows == 0 {
			continue
		}
		last := strconv.Itoa(s.rows + 1)
		if err := f.SetCellStyle(s.sheet, s.from+"2", s.to+last, s.style); err != nil {
			return nil, fmt.Errorf("style %s: %w", s.sheet, err)
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// WriteCSV writes the detail rows as CSV with the same columns as the
// "Detalhado" sheet.
func WriteCSV(w io.Writer, rows []ReportRow) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(detailHeader))
	for i, h := range detailHeader {
		header[i] = h.(string)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Date.Format(time.DateOnly),
			r.ProductName,
			strconv.Itoa(int(r.Quantity)),
			r.UnitPrice.StringFixed(2),
			r.LineTotal.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func strPtr(s string) *string { return &s }
