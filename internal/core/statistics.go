package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// TotalsByDay returns the revenue of every day with sales, ascending by
// date. With no sales at all the result is an empty, non-nil slice.
func (s *Service) TotalsByDay(ctx context.Context) ([]DayTotal, error) {
	query, args, err := psql.
		Select("data", "SUM(quantidade * preco_unit)::numeric(14, 2) AS total").
		From("vendas").
		GroupBy("data").
		OrderBy("data").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build totals query: %w", err)
	}

	conn, _, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("totals by day: %w", err)
	}
	defer rows.Close()

	totals := []DayTotal{}
	for rows.Next() {
		var (
			date  pgtype.Date
			total pgtype.Numeric
		)
		if err := rows.Scan(&date, &total); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		totals = append(totals, DayTotal{Date: FromPgDate(date), Total: FromPgNumeric(total)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("totals rows: %w", err)
	}
	return totals, nil
}
