package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const deleteProduto = `-- name: DeleteProduto :execrows
DELETE FROM produtos
WHERE id = $1
`

func (q *Queries) DeleteProduto(ctx context.Context, id int32) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProduto, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getProduto = `-- name: GetProduto :one
SELECT id, nome, preco
FROM produtos
WHERE id = $1
`

func (q *Queries) GetProduto(ctx context.Context, id int32) (Produto, error) {
	row := q.db.QueryRow(ctx, getProduto, id)
	var i Produto
	err := row.Scan(&i.ID, &i.Nome, &i.Preco)
	return i, err
}

const insertProduto = `-- name: InsertProduto :one
INSERT INTO produtos (nome, preco)
VALUES ($1, $2)
RETURNING id, nome, preco
`

type InsertProdutoParams struct {
	Nome  string
	Preco pgtype.Numeric
}

func (q *Queries) InsertProduto(ctx context.Context, arg InsertProdutoParams) (Produto, error) {
	row := q.db.QueryRow(ctx, insertProduto, arg.Nome, arg.Preco)
	var i Produto
	err := row.Scan(&i.ID, &i.Nome, &i.Preco)
	return i, err
}

const listProdutos = `-- name: ListProdutos :many
SELECT id, nome, preco
FROM produtos
ORDER BY nome, id
`

func (q *Queries) ListProdutos(ctx context.Context) ([]Produto, error) {
	rows, err := q.db.Query(ctx, listProdutos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Produto
	for rows.Next() {
		var i Produto
		if err := rows.Scan(&i.ID, &i.Nome, &i.Preco); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateProduto = `-- name: UpdateProduto :execrows
UPDATE produtos
SET nome = $2, preco = $3
WHERE id = $1
`

type UpdateProdutoParams struct {
	ID    int32
	Nome  string
	Preco pgtype.Numeric
}

func (q *Queries) UpdateProduto(ctx context.Context, arg UpdateProdutoParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateProduto, arg.ID, arg.Nome, arg.Preco)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
