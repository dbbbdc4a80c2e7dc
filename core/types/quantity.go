package types

import (
	"fmt"
	"math/big"
	"strings"
)

// Quantity is a token amount expressed in base units at a fixed precision,
// together with its symbol. "20.0000 SNAX" at precision 4 is the quantity
// {Amount: 200000, Symbol: "SNAX", Precision: 4}.
type Quantity struct {
	Amount    *big.Int
	Symbol    string
	Precision uint8
}

// NewQuantity builds a quantity from base units. A nil amount is treated as
// zero.
func NewQuantity(amount *big.Int, symbol string, precision uint8) Quantity {
	if amount == nil {
		amount = big.NewInt(0)
	}
	return Quantity{
		Amount:    new(big.Int).Set(amount),
		Symbol:    strings.ToUpper(strings.TrimSpace(symbol)),
		Precision: precision,
	}
}

// ParseQuantity decodes an asset string of the form "20.0000 SNAX". The
// number of fractional digits fixes the precision; a missing fractional part
// denotes precision zero.
func ParseQuantity(s string) (Quantity, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return Quantity{}, fmt.Errorf("quantity: malformed asset string %q", s)
	}
	number, symbol := fields[0], strings.ToUpper(fields[1])
	if symbol == "" {
		return Quantity{}, fmt.Errorf("quantity: missing symbol in %q", s)
	}
	if strings.HasPrefix(number, "-") {
		return Quantity{}, fmt.Errorf("quantity: negative amount in %q", s)
	}
	whole := number
	frac := ""
	if idx := strings.IndexByte(number, '.'); idx >= 0 {
		whole, frac = number[:idx], number[idx+1:]
		if frac == "" {
			return Quantity{}, fmt.Errorf("quantity: malformed amount in %q", s)
		}
	}
	if whole == "" {
		whole = "0"
	}
	digits := whole + frac
	amount, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Quantity{}, fmt.Errorf("quantity: malformed amount in %q", s)
	}
	if len(frac) > 255 {
		return Quantity{}, fmt.Errorf("quantity: precision out of range in %q", s)
	}
	return Quantity{Amount: amount, Symbol: symbol, Precision: uint8(len(frac))}, nil
}

// Clone returns a deep copy of the quantity.
func (q Quantity) Clone() Quantity {
	return NewQuantity(q.Amount, q.Symbol, q.Precision)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (q Quantity) IsPositive() bool {
	return q.Amount != nil && q.Amount.Sign() > 0
}

// String renders the quantity back into its canonical asset-string form.
func (q Quantity) String() string {
	amount := q.Amount
	if amount == nil {
		amount = big.NewInt(0)
	}
	if q.Precision == 0 {
		return fmt.Sprintf("%s %s", amount.String(), q.Symbol)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(q.Precision)), nil)
	whole, frac := new(big.Int).QuoRem(amount, scale, new(big.Int))
	return fmt.Sprintf("%s.%0*d %s", whole.String(), int(q.Precision), frac, q.Symbol)
}
