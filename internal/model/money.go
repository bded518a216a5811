package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidMoney indicates text that is not a "$"-prefixed decimal amount.
var ErrInvalidMoney = errors.New("invalid money amount")

// ZeroAmountText is the sentinel the export uses for an empty money field.
const ZeroAmountText = "$0.00"

// Money is a signed decimal amount. Arithmetic is exact; display and
// equality checks that matter to a reader happen at cent precision.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money from a float. Intended for tests and fixtures.
func NewMoney(value float64) Money {
	return Money{amount: decimal.NewFromFloat(value)}
}

// NewMoneyFromCents creates Money from an integer number of cents.
func NewMoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -2)}
}

// NewMoneyFromDecimal wraps an exact decimal amount.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{amount: d}
}

// ParseMoney parses text such as "$12.50", "$1,234.50" or "-$1,234.50".
func ParseMoney(text string) (Money, error) {
	s := strings.TrimSpace(text)
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	if !strings.HasPrefix(s, "$") {
		return Money{}, fmt.Errorf("%w: %q has no $ prefix", ErrInvalidMoney, text)
	}
	s = strings.ReplaceAll(s[1:], ",", "")
	if s == "" {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidMoney, text)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q: %v", ErrInvalidMoney, text, err)
	}
	if negative {
		d = d.Neg()
	}
	return Money{amount: d}, nil
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg()}
}

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Cmp compares m and other: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

// EqualCents reports whether m and other are equal once rounded to the cent.
func (m Money) EqualCents(other Money) bool {
	return m.Cents() == other.Cents()
}

// Cents returns the amount rounded half away from zero to whole cents.
func (m Money) Cents() int64 {
	return m.amount.Round(2).Shift(2).IntPart()
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String renders the raw amount with two decimals, no symbol or grouping.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// CurrencyFormat renders Money as currency text for a given locale.
type CurrencyFormat struct {
	Symbol string
	Locale language.Tag
}

// DefaultCurrencyFormat formats US dollars with US grouping.
func DefaultCurrencyFormat() CurrencyFormat {
	return CurrencyFormat{Symbol: "$", Locale: language.AmericanEnglish}
}

// NewCurrencyFormat builds a CurrencyFormat from a BCP 47 locale string.
func NewCurrencyFormat(symbol, locale string) (CurrencyFormat, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return CurrencyFormat{}, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return CurrencyFormat{Symbol: symbol, Locale: tag}, nil
}

// Format rounds to two decimals, groups thousands per the locale and places
// the sign before the symbol: -1234.5 renders as "-$1,234.50".
func (f CurrencyFormat) Format(m Money) string {
	rounded := m.amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	// Only the whole part goes through the printer, for grouping. The cents
	// are taken from the exact decimal text.
	whole, cents, _ := strings.Cut(rounded.StringFixed(2), ".")
	if units, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = message.NewPrinter(f.Locale).Sprintf("%d", units)
	}
	return sign + f.Symbol + whole + "." + cents
}
