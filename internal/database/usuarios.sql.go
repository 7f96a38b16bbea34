package database

import (
	"context"
)

const getUsuario = `-- name: GetUsuario :one
SELECT usuario, senha
FROM usuarios
WHERE usuario = $1
`

func (q *Queries) GetUsuario(ctx context.Context, usuario string) (Usuario, error) {
	row := q.db.QueryRow(ctx, getUsuario, usuario)
	var i Usuario
	err := row.Scan(&i.Usuario, &i.Senha)
	return i, err
}

const updateSenha = `-- name: UpdateSenha :exec
UPDATE usuarios
SET senha = $2
WHERE usuario = $1
`

type UpdateSenhaParams struct {
	Usuario string
	Senha   string
}

func (q *Queries) UpdateSenha(ctx context.Context, arg UpdateSenhaParams) error {
	_, err := q.db.Exec(ctx, updateSenha, arg.Usuario, arg.Senha)
	return err
}

const upsertUsuario = `-- name: UpsertUsuario :exec
INSERT INTO usuarios (usuario, senha)
VALUES ($1, $2)
ON CONFLICT (usuario) DO UPDATE SET senha = EXCLUDED.senha
`

type UpsertUsuarioParams struct {
	Usuario string
	Senha   string
}

func (q *Queries) UpsertUsuario(ctx context.Context, arg UpsertUsuarioParams) error {
	_, err := q.db.Exec(ctx, upsertUsuario, arg.Usuario, arg.Senha)
	return err
}
