package core

import (
	"context"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// psql builds PostgreSQL statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DailySummary returns the number of sales and the revenue of date.
// A day without sales yields {0, 0}. A zero date means today.
func (s *Service) DailySummary(ctx context.Context, date time.Time) (Summary, error) {
	if date.IsZero() {
		date = s.Today()
	}

	conn, q, err := s.open(ctx)
	if err != nil {
		return Summary{}, err
	}
	defer conn.Close()

	row, err := q.DailySummary(ctx, ToPgDate(date))
	if err != nil {
		return Summary{}, fmt.Errorf("daily summary: %w", err)
	}
	return Summary{Count: int(row.Qt), Total: FromPgNumeric(row.Total)}, nil
}

// RangeReport returns every sale with start <= date <= end, joined with its
// product name, ordered by date then sale id. No match is ErrNoRecords.
func (s *Service) RangeReport(ctx context.Context, start, end time.Time) ([]ReportRow, error) {
	return s.QueryReport(ctx, ReportFilter{Start: start, End: end})
}

// QueryReport is RangeReport with an optional product filter.
func (s *Service) QueryReport(ctx context.Context, f ReportFilter) ([]ReportRow, error) {
	if f.Start.IsZero() || f.End.IsZero() {
		return nil, fmt.Errorf("report: %w", ErrInvalidRange)
	}
	f.Start, f.End = dateOnly(f.Start), dateOnly(f.End)
	if f.Start.After(f.End) {
		return nil, ErrInvalidRange
	}

	query, args, err := reportQuery(f)
	if err != nil {
		return nil, fmt.Errorf("build report query: %w", err)
	}

	conn, _, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("report query: %w", err)
	}
	defer rows.Close()

	var report []ReportRow
	for rows.Next() {
		var (
			r            ReportRow
			date         pgtype.Date
			price, total pgtype.Numeric
		)
		if err := rows.Scan(&r.SaleID, &date, &r.ProductName, &r.Quantity, &price, &total); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		r.Date = FromPgDate(date)
		r.UnitPrice = FromPgNumeric(price)
		r.LineTotal = FromPgNumeric(total)
		report = append(report, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report rows: %w", err)
	}

	if len(report) == 0 {
		return nil, ErrNoRecords
	}
	return report, nil
}

func reportQuery(f ReportFilter) (string, []any, error) {
	q := psql.
		Select(
			"v.id", "v.data", "p.nome", "v.quantidade", "v.preco_unit",
			"(v.quantidade * v.preco_unit)::numeric(14, 2) AS total",
		).
		From("vendas v").
		Join("produtos p ON p.id = v.produto_id").
		Where(sq.Expr("v.data BETWEEN ? AND ?", ToPgDate(f.Start), ToPgDate(f.End))).
		OrderBy("v.data", "v.id")

	if f.ProductID != 0 {
		q = q.Where(sq.Eq{"v.produto_id": f.ProductID})
	}
	return q.ToSql()
}

// DailyTotals groups report rows by date, summing line totals, ascending.
func DailyTotals(rows []ReportRow) []DayTotal {
	byDay := make(map[time.Time]decimal.Decimal)
	for _, r := range rows {
		day := dateOnly(r.Date)
		byDay[day] = byDay[day].Add(r.LineTotal)
	}

	totals := make([]DayTotal, 0, len(byDay))
	for day, total := range byDay {
		totals = append(totals, DayTotal{Date: day, Total: total})
	}
	slices.SortFunc(totals, func(a, b DayTotal) int {
		return a.Date.Compare(b.Date)
	})
	return totals
}

// GrandTotal sums the line totals of rows.
func GrandTotal(rows []ReportRow) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.LineTotal)
	}
	return sum
}
