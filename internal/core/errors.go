package core

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Domain errors. Callers check them with errors.Is; the web layer turns
// them into user messages through MapError.
var (
	// ErrConnection means no database connection could be acquired.
	ErrConnection = errors.New("database connection failed")

	ErrInvalidCredentials = errors.New("invalid credentials")

	// Catalog
	ErrDuplicateName = errors.New("product name already exists")
	ErrNotFound      = errors.New("product not found")
	ErrProductInUse  = errors.New("product has recorded sales")
	ErrInvalidName   = errors.New("product name is empty")
	ErrInvalidPrice  = errors.New("product price is invalid")

	// Sales
	ErrProductNotFound = errors.New("sale product does not exist")
	ErrInvalidQuantity = errors.New("sale quantity must be at least 1")

	// Reporting
	ErrNoRecords    = errors.New("no records found")
	ErrInvalidRange = errors.New("start date is after end date")
)

// PostgreSQL error codes translated by translatePgError.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const (
	constraintProdutoNome  = "produtos_nome_key"
	constraintVendaProduto = "vendas_produto_id_fkey"
)

// translatePgError maps constraint violations onto domain errors. The
// original error stays in the chain for logging.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintProdutoNome:
		return fmt.Errorf("%w: %w", ErrDuplicateName, err)
	case pgErr.Code == pgForeignKeyViolation && pgErr.ConstraintName == constraintVendaProduto:
		return fmt.Errorf("%w: %w", ErrProductInUse, err)
	}
	return err
}
