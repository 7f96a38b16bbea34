package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	db "github.com/JonMunkholm/vendas/internal/database"
	"github.com/jackc/pgx/v5"
)

// RecordSale stores a sale of quantity units of the product on date. The
// product's current price is copied into the sale by the same statement
// that inserts it. A zero date means today.
func (s *Service) RecordSale(ctx context.Context, productID int32, quantity int, date time.Time) (Sale, error) {
	qty, err := validateQuantity(quantity)
	if err != nil {
		return Sale{}, err
	}
	if date.IsZero() {
		date = s.Today()
	}

	conn, q, err := s.open(ctx)
	if err != nil {
		return Sale{}, err
	}
	defer conn.Close()

	row, err := q.InsertVenda(ctx, db.InsertVendaParams{
		Data:       ToPgDate(date),
		Quantidade: qty,
		ProdutoID:  productID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, ErrProductNotFound
	}
	if err != nil {
		return Sale{}, fmt.Errorf("record sale: %w", translatePgError(err))
	}

	sale := saleFromRow(row)
	s.audit(ctx, q, AuditLogParams{
		Action:   ActionSaleRecord,
		EntityID: strconv.Itoa(int(sale.ID)),
		Detail: map[string]any{
			"produto_id": sale.ProductID,
			"quantidade": sale.Quantity,
			"preco_unit": sale.UnitPrice.StringFixed(2),
			"data":       sale.Date.Format(time.DateOnly),
		},
	})
	return sale, nil
}

// RecentSales returns the latest sales, newest first.
func (s *Service) RecentSales(ctx context.Context, limit int) ([]RecentSale, error) {
	if limit <= 0 {
		limit = 20
	}

	conn, q, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := q.ListRecentVendas(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list recent sales: %w", err)
	}

	sales := make([]RecentSale, 0, len(rows))
	for _, r := range rows {
		sales = append(sales, RecentSale{
			ID:          r.ID,
			Date:        FromPgDate(r.Data),
			ProductName: r.Nome,
			Quantity:    r.Quantidade,
			UnitPrice:   FromPgNumeric(r.PrecoUnit),
			LineTotal:   FromPgNumeric(r.Total),
		})
	}
	return sales, nil
}

func saleFromRow(r db.Venda) Sale {
	return Sale{
		ID:        r.ID,
		Date:      FromPgDate(r.Data),
		ProductID: r.ProdutoID,
		Quantity:  r.Quantidade,
		UnitPrice: FromPgNumeric(r.PrecoUnit),
	}
}
