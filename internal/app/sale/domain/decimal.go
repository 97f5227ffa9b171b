package domain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Decimal is an exact decimal value backed by big.Rat.
// Quantities and monetary amounts both use it so line totals never pick up
// floating-point error.
type Decimal struct {
	rat *big.Rat
}

// NewDecimalFromRat copies rat into a new Decimal. A nil rat yields zero.
func NewDecimalFromRat(rat *big.Rat) *Decimal {
	if rat == nil {
		return Zero()
	}
	return &Decimal{rat: new(big.Rat).Set(rat)}
}

// Zero returns a Decimal equal to 0.
func Zero() *Decimal {
	return &Decimal{rat: new(big.Rat)}
}

// ParseDecimal parses the textual amounts the ERP emits: "12.50", "12,50" or "1.234,56".
func ParseDecimal(s string) (*Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty decimal")
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	rat, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid decimal %q", s)
	}
	return &Decimal{rat: rat}, nil
}

// Add returns d + other.
func (d *Decimal) Add(other *Decimal) *Decimal {
	return &Decimal{rat: new(big.Rat).Add(d.rat, other.rat)}
}

// Mul returns d × other.
func (d *Decimal) Mul(other *Decimal) *Decimal {
	return &Decimal{rat: new(big.Rat).Mul(d.rat, other.rat)}
}

// IsZero returns true if the value is zero.
func (d *Decimal) IsZero() bool {
	return d.rat.Sign() == 0
}

// Format renders the value rounded to prec decimal places.
func (d *Decimal) Format(prec int) string {
	return d.rat.FloatString(prec)
}

// String renders the value with two decimal places.
func (d *Decimal) String() string {
	return d.rat.FloatString(2)
}

// MarshalJSON encodes the value as a two-decimal string.
func (d *Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
