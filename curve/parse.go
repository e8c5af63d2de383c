package curve

import (
	"math/big"
	"strings"

	"github.com/SuccinctPaul/collaborative-circom/mpc"
)

// ParseElement parses a field-element literal into a scalar of type E.
// A literal is a decimal string or a 0x-prefixed hexadecimal string,
// optionally preceded by '-'. The magnitude is reduced modulo the field
// characteristic before the optional negation is applied.
func ParseElement[E any, pE Element[E]](s string, modulus *big.Int) (e E, err error) {
	stripped, negative := strings.CutPrefix(s, "-")

	digits, isHex := strings.CutPrefix(stripped, "0x")
	base := 10
	if isHex {
		base = 16
	}
	// big.Int.SetString accepts a sign of its own; the literal grammar
	// allows only the single leading '-'
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return e, mpc.Errorf(mpc.Parse, "could not parse field element: %q", s)
	}

	v := new(big.Int)
	if _, ok := v.SetString(digits, base); !ok {
		return e, mpc.Errorf(mpc.Parse, "could not parse field element: %q", s)
	}

	v.Mod(v, modulus)
	pE(&e).SetBigInt(v)
	if negative {
		pE(&e).Neg(&e)
	}
	return e, nil
}

// FormatElement renders a scalar as the decimal string used by the
// public-input output format. Zero is rendered as "0".
func FormatElement[E any, pE Element[E]](e *E) string {
	if pE(e).IsZero() {
		return "0"
	}
	return pE(e).Text(10)
}
