package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/vendas/internal/core"
	"github.com/JonMunkholm/vendas/internal/session"
	"github.com/JonMunkholm/vendas/internal/web/templates"
)

// handleHome renders today's sales count and revenue.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	today := s.service.Today()
	summary, err := s.service.DailySummary(r.Context(), today)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	s.render(w, r, templates.Home(templates.HomePage{
		PageParams: s.pageParams(w, r, "Resumo do Dia", "home"),
		Today:      today,
		Summary:    summary,
	}))
}

// handleProducts renders the catalog. ?edit={id} opens the edit form.
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products, err := s.service.ListProducts(ctx)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	page := templates.ProductsPage{Products: products}
	if raw := r.URL.Query().Get("edit"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			s.respondError(w, r, core.ErrNotFound, http.StatusNotFound)
			return
		}
		p, err := s.service.GetProduct(ctx, int32(id))
		if err != nil {
			s.respondError(w, r, err, statusFor(err))
			return
		}
		page.Editing = &p
	}

	page.PageParams = s.pageParams(w, r, "Produtos", "products")
	s.render(w, r, templates.Products(page))
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	price, err := core.ParseMoney(r.PostFormValue("preco"))
	if err != nil {
		s.failForm(w, r, fieldError("preco", r.PostFormValue("preco"), err), "/products")
		return
	}
	if _, err := s.service.CreateProduct(r.Context(), r.PostFormValue("nome"), price); err != nil {
		if errors.Is(err, core.ErrDuplicateName) {
			s.redirectWithFlash(w, r, session.FlashError, "Produto já cadastrado!", "/products")
			return
		}
		s.failForm(w, r, err, "/products")
		return
	}
	s.redirectWithFlash(w, r, session.FlashSuccess, "Produto cadastrado com sucesso!", "/products")
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		s.failForm(w, r, err, "/products")
		return
	}
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	editURL := "/products?edit=" + strconv.Itoa(int(id))
	price, err := core.ParseMoney(r.PostFormValue("preco"))
	if err != nil {
		s.failForm(w, r, fieldError("preco", r.PostFormValue("preco"), err), editURL)
		return
	}
	if err := s.service.UpdateProduct(r.Context(), id, r.PostFormValue("nome"), price); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			editURL = "/products"
		}
		s.failForm(w, r, err, editURL)
		return
	}
	s.redirectWithFlash(w, r, session.FlashSuccess, "Produto alterado!", "/products")
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		s.failForm(w, r, err, "/products")
		return
	}
	if err := s.service.DeleteProduct(r.Context(), id); err != nil {
		s.failForm(w, r, err, "/products")
		return
	}
	s.redirectWithFlash(w, r, session.FlashWarning, "Produto excluído!", "/products")
}

// handleSales renders the sale form and the latest sales.
func (s *Server) handleSales(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products, err := s.service.ListProducts(ctx)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	recent, err := s.service.RecentSales(ctx, recentSalesLimit)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	s.render(w, r, templates.Sales(templates.SalesPage{
		PageParams: s.pageParams(w, r, "Vendas", "sales"),
		Products:   products,
		Recent:     recent,
		Today:      s.service.Today(),
	}))
}

func (s *Server) handleRecordSale(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	productID, err := strconv.ParseInt(r.PostFormValue("produto_id"), 10, 32)
	if err != nil {
		s.failForm(w, r, fieldError("produto_id", r.PostFormValue("produto_id"), core.ErrProductNotFound), "/sales")
		return
	}
	quantity, err := core.ParseQuantity(r.PostFormValue("quantidade"))
	if err != nil {
		s.failForm(w, r, fieldError("quantidade", r.PostFormValue("quantidade"), err), "/sales")
		return
	}

	// An empty date means today.
	var date time.Time
	if raw := r.PostFormValue("data"); raw != "" {
		if date, err = core.ParseDate(raw); err != nil {
			s.failForm(w, r, fieldError("data", raw, err), "/sales")
			return
		}
	}

	if _, err := s.service.RecordSale(r.Context(), int32(productID), quantity, date); err != nil {
		s.failForm(w, r, err, "/sales")
		return
	}
	s.redirectWithFlash(w, r, session.FlashSuccess, "Venda registrada com sucesso!", "/sales")
}
