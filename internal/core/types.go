package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an item of the catalog.
type Product struct {
	ID    int32
	Name  string
	Price decimal.Decimal
}

// Sale is one recorded sale line. UnitPrice is the product price at the
// moment the sale was recorded and never changes afterwards.
type Sale struct {
	ID        int32
	Date      time.Time
	ProductID int32
	Quantity  int32
	UnitPrice decimal.Decimal
}

// LineTotal returns Quantity * UnitPrice.
func (s Sale) LineTotal() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt32(s.Quantity))
}

// RecentSale is a sale joined with its product name, for listings.
type RecentSale struct {
	ID          int32
	Date        time.Time
	ProductName string
	Quantity    int32
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// Summary is the number of sales and the revenue of a single day.
type Summary struct {
	Count int
	Total decimal.Decimal
}

// ReportRow is one line of a range report.
type ReportRow struct {
	SaleID      int32
	Date        time.Time
	ProductName string
	Quantity    int32
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// DayTotal is the revenue of one calendar day.
type DayTotal struct {
	Date  time.Time
	Total decimal.Decimal
}

// ReportFilter selects the sales of a range report. Start and End are
// inclusive. A zero ProductID matches every product.
type ReportFilter struct {
	Start     time.Time
	End       time.Time
	ProductID int32
}

// Dates are carried as UTC midnight.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
