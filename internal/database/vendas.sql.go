package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const dailySummary = `-- name: DailySummary :one
SELECT COUNT(*)::integer AS qt,
       COALESCE(SUM(quantidade * preco_unit), 0)::numeric(14, 2) AS total
FROM vendas
WHERE data = $1
`

type DailySummaryRow struct {
	Qt    int32
	Total pgtype.Numeric
}

func (q *Queries) DailySummary(ctx context.Context, data pgtype.Date) (DailySummaryRow, error) {
	row := q.db.QueryRow(ctx, dailySummary, data)
	var i DailySummaryRow
	err := row.Scan(&i.Qt, &i.Total)
	return i, err
}

const insertVenda = `-- name: InsertVenda :one
INSERT INTO vendas (data, produto_id, quantidade, preco_unit)
SELECT $1::date, p.id, $2::integer, p.preco
FROM produtos p
WHERE p.id = $3
RETURNING id, data, produto_id, quantidade, preco_unit
`

type InsertVendaParams struct {
	Data       pgtype.Date
	Quantidade int32
	ProdutoID  int32
}

// The unit price is copied from the product in the same statement, so the
// snapshot always matches the price at insert time.
func (q *Queries) InsertVenda(ctx context.Context, arg InsertVendaParams) (Venda, error) {
	row := q.db.QueryRow(ctx, insertVenda, arg.Data, arg.Quantidade, arg.ProdutoID)
	var i Venda
	err := row.Scan(
		&i.ID,
		&i.Data,
		&i.ProdutoID,
		&i.Quantidade,
		&i.PrecoUnit,
	)
	return i, err
}

const listRecentVendas = `-- name: ListRecentVendas :many
SELECT v.id, v.data, p.nome, v.quantidade, v.preco_unit,
       (v.quantidade * v.preco_unit)::numeric(14, 2) AS total
FROM vendas v
JOIN produtos p ON p.id = v.produto_id
ORDER BY v.data DESC, v.id DESC
LIMIT $1
`

type ListRecentVendasRow struct {
	ID         int32
	Data       pgtype.Date
	Nome       string
	Quantidade int32
	PrecoUnit  pgtype.Numeric
	Total      pgtype.Numeric
}

func (q *Queries) ListRecentVendas(ctx context.Context, limit int32) ([]ListRecentVendasRow, error) {
	rows, err := q.db.Query(ctx, listRecentVendas, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListRecentVendasRow
	for rows.Next() {
		var i ListRecentVendasRow
		if err := rows.Scan(
			&i.ID,
			&i.Data,
			&i.Nome,
			&i.Quantidade,
			&i.PrecoUnit,
			&i.Total,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
