package quantity

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrMalformedQuantity is returned when a string is not a hexadecimal numeral.
var ErrMalformedQuantity = errors.New("malformed quantity")

// MaxSafeInteger is the largest integer a JSON/JS number can hold exactly (2^53 - 1).
var MaxSafeInteger = new(big.Int).SetUint64(1<<53 - 1)

// Parse decodes an optionally 0x-prefixed, optionally signed hexadecimal numeral.
// Leading zeros are accepted; use Canonicalize to normalize them away.
func Parse(s string) (*big.Int, error) {
	digits := s
	neg := false
	if strings.HasPrefix(digits, "-") {
		neg = true
		digits = digits[1:]
	}
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
	}
	if digits == "" {
		return nil, fmt.Errorf("%w: %q", ErrMalformedQuantity, s)
	}
	for _, r := range digits {
		if !isHexDigit(r) {
			return nil, fmt.Errorf("%w: %q", ErrMalformedQuantity, s)
		}
	}
	n, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedQuantity, s)
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}

// Format encodes n as a canonical lower-case 0x-prefixed string without
// leading zeros. Negative values are prefixed "-0x". A nil value formats as "0x0".
func Format(n *big.Int) string {
	if n == nil {
		return "0x0"
	}
	return hexutil.EncodeBig(n)
}

// FromUint64 returns n as a big integer.
func FromUint64(n uint64) *big.Int {
	return new(big.Int).SetUint64(n)
}

// Canonicalize parses s and re-encodes it in canonical form.
func Canonicalize(s string) (string, error) {
	n, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(n), nil
}

// MulFrac returns floor(x * num / den) using integer arithmetic only.
func MulFrac(x *big.Int, num, den int64) *big.Int {
	if den == 0 {
		panic("quantity: zero denominator")
	}
	r := new(big.Int).Mul(x, big.NewInt(num))
	// Euclidean division; floor for a positive den.
	return r.Div(r, big.NewInt(den))
}

// IsSafeInteger reports whether n fits in [0, MaxSafeInteger].
func IsSafeInteger(n *big.Int) bool {
	return n != nil && n.Sign() >= 0 && n.Cmp(MaxSafeInteger) <= 0
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
