package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	db "github.com/JonMunkholm/vendas/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ListProducts returns the catalog ordered by name, then id.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	conn, q, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := q.ListProdutos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, productFromRow(r))
	}
	return products, nil
}

// GetProduct returns one product, or ErrNotFound.
func (s *Service) GetProduct(ctx context.Context, id int32) (Product, error) {
	conn, q, err := s.open(ctx)
	if err != nil {
		return Product{}, err
	}
	defer conn.Close()

	row, err := q.GetProduto(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return productFromRow(row), nil
}

// CreateProduct adds a product. The name is trimmed and must be unique;
// the price is rounded to cents and must not be negative.
func (s *Service) CreateProduct(ctx context.Context, name string, price decimal.Decimal) (Product, error) {
	name, err := normalizeProductName(name)
	if err != nil {
		return Product{}, err
	}
	price, err = normalizePrice(price)
	if err != nil {
		return Product{}, err
	}

	conn, q, err := s.open(ctx)
	if err != nil {
		return Product{}, err
	}
	defer conn.Close()

	row, err := q.InsertProduto(ctx, db.InsertProdutoParams{
		Nome:  name,
		Preco: ToPgNumeric(price),
	})
	if err != nil {
		return Product{}, fmt.Errorf("create product %q: %w", name, translatePgError(err))
	}

	p := productFromRow(row)
	s.audit(ctx, q, AuditLogParams{
		Action:   ActionProductCreate,
		EntityID: strconv.Itoa(int(p.ID)),
		Detail:   map[string]any{"nome": p.Name, "preco": p.Price.StringFixed(2)},
	})
	return p, nil
}

// UpdateProduct overwrites name and price. Renaming onto another product's
// name fails with ErrDuplicateName.
func (s *Service) UpdateProduct(ctx context.Context, id int32, name string, price decimal.Decimal) error {
	name, err := normalizeProductName(name)
	if err != nil {
		return err
	}
	price, err = normalizePrice(price)
	if err != nil {
		return err
	}

	conn, q, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	n, err := q.UpdateProduto(ctx, db.UpdateProdutoParams{
		ID:    id,
		Nome:  name,
		Preco: ToPgNumeric(price),
	})
	if err != nil {
		return fmt.Errorf("update product %d: %w", id, translatePgError(err))
	}
	if n == 0 {
		return ErrNotFound
	}

	s.audit(ctx, q, AuditLogParams{
		Action:   ActionProductUpdate,
		EntityID: strconv.Itoa(int(id)),
		Detail:   map[string]any{"nome": name, "preco": price.StringFixed(2)},
	})
	return nil
}

// DeleteProduct removes a product. A missing id is a no-op. Products with
// recorded sales cannot be deleted (ErrProductInUse).
func (s *Service) DeleteProduct(ctx context.Context, id int32) error {
	conn, q, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	n, err := q.DeleteProduto(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, translatePgError(err))
	}
	if n == 0 {
		return nil
	}

	s.audit(ctx, q, AuditLogParams{
		Action:   ActionProductDelete,
		EntityID: strconv.Itoa(int(id)),
	})
	return nil
}

func productFromRow(r db.Produto) Product {
	return Product{
		ID:    r.ID,
		Name:  r.Nome,
		Price: FromPgNumeric(r.Preco),
	}
}
