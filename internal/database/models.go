package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type AuditLog struct {
	ID        pgtype.UUID
	Action    string
	Severity  string
	Username  pgtype.Text
	EntityID  pgtype.Text
	Detail    []byte
	IpAddress pgtype.Text
	UserAgent pgtype.Text
	CreatedAt pgtype.Timestamptz
}

type Produto struct {
	ID    int32
	Nome  string
	Preco pgtype.Numeric
}

type Usuario struct {
	Usuario string
	Senha   string
}

type Venda struct {
	ID         int32
	Data       pgtype.Date
	ProdutoID  int32
	Quantidade int32
	PrecoUnit  pgtype.Numeric
}
