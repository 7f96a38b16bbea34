package core

// convert.go translates between form input, domain values and pgtype values.
//
// Form input is forgiving: prices may carry a currency symbol and use either
// a decimal comma (12,50 or 1.234,56) or a decimal point (12.50). A dot
// followed by three digits groups thousands (1.234 is one thousand two
// hundred and thirty-four). Dates come
// from HTML date inputs (2006-01-02) or are typed as 02/01/2006.

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// numericRegex validates a number after currency and separator cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
}

// ParseMoney parses a price typed by a user.
func ParseMoney(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}

	whole, frac, ok := splitMoney(s)
	if !ok {
		return decimal.Zero, fmt.Errorf("invalid number %q", raw)
	}
	s = sign + whole
	if frac != "" {
		s += "." + frac
	}

	if s == "" || !numericRegex.MatchString(s) {
		return decimal.Zero, fmt.Errorf("invalid number %q", raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	return d, nil
}

// splitMoney separates the integer digits from the fraction.
//
// With both separators present the last one is the decimal mark. A single
// comma is always decimal (12,5). A single dot is decimal unless it is
// followed by exactly three digits after a non-zero integer part (1.234),
// and a repeated separator (1.234.567) always groups thousands.
func splitMoney(s string) (whole, frac string, ok bool) {
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")

	dec := -1
	var group string
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		dec, group = comma, "."
	case comma >= 0 && dot >= 0:
		dec, group = dot, ","
	case comma >= 0 && strings.Count(s, ",") > 1:
		group = ","
	case comma >= 0:
		dec = comma
	case dot >= 0 && (strings.Count(s, ".") > 1 || groupsThousands(s, dot)):
		group = "."
	case dot >= 0:
		dec = dot
	}

	whole = s
	if dec >= 0 {
		whole, frac = s[:dec], s[dec+1:]
	}
	if group != "" && strings.Contains(whole, group) {
		if whole, ok = ungroup(whole, group); !ok {
			return "", "", false
		}
	}
	return whole, frac, true
}

// groupsThousands reports whether the lone dot at i reads as 1.234.
func groupsThousands(s string, i int) bool {
	return len(s)-i-1 == 3 && strings.TrimLeft(s[:i], "0") != ""
}

// ungroup removes thousands separators, checking that every group after
// the first has exactly three digits.
func ungroup(s, sep string) (string, bool) {
	parts := strings.Split(s, sep)
	for i, p := range parts {
		if strings.Trim(p, "0123456789") != "" {
			return "", false
		}
		if (i == 0 && (p == "" || len(p) > 3)) || (i > 0 && len(p) != 3) {
			return "", false
		}
	}
	return strings.Join(parts, ""), true
}

// ParseDate parses a calendar date and returns it at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseQuantity parses a sale quantity. Range checks happen in RecordSale.
func ParseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgDate converts a date to pgtype.Date. The zero time is invalid.
func ToPgDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: dateOnly(t), Valid: true}
}

// FromPgDate converts a pgtype.Date to UTC midnight, or the zero time.
func FromPgDate(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return dateOnly(d.Time)
}

// ToPgNumeric converts a decimal to pgtype.Numeric without losing precision.
func ToPgNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   new(big.Int).Set(d.Coefficient()),
		Exp:   d.Exponent(),
		Valid: true,
	}
}

// FromPgNumeric converts a pgtype.Numeric to a decimal. NULL and NaN become zero.
func FromPgNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

// ToPgUUID converts a uuid to pgtype.UUID.
func ToPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// PgUUIDToString converts a pgtype.UUID to its string representation.
// Returns empty string if the UUID is invalid.
func PgUUIDToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

// pgTextString returns the string of a pgtype.Text, or "" when NULL.
func pgTextString(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}
