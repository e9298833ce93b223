package quantity_test

import (
	"math/big"
	"testing"

	"github.com/Mohsinsiddi/w3gate/internal/quantity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Parse
// ---------------------------------------------------------------------------

func TestParseValid(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0x0", 0},
		{"0x1", 1},
		{"0x64", 100},
		{"0xFF", 255},
		{"0Xff", 255},
		{"ff", 255},
		{"0x0001", 1},
		{"-0x10", -16},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := quantity.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Int64())
		})
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{"", "0x", "-", "-0x", "0xg1", "12 3", "0x1.5", "+0x1", "0x-1"} {
		t.Run(in, func(t *testing.T) {
			_, err := quantity.Parse(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, quantity.ErrMalformedQuantity)
		})
	}
}

func TestParseBeyondFloatPrecision(t *testing.T) {
	// 2^53 + 1 is not representable as a float64.
	n, err := quantity.Parse("0x20000000000001")
	require.NoError(t, err)
	want := new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 53), big.NewInt(1))
	assert.Equal(t, 0, want.Cmp(n))
}

// ---------------------------------------------------------------------------
// Format / Canonicalize
// ---------------------------------------------------------------------------

func TestFormat(t *testing.T) {
	assert.Equal(t, "0x0", quantity.Format(big.NewInt(0)))
	assert.Equal(t, "0x0", quantity.Format(nil))
	assert.Equal(t, "0x1", quantity.Format(big.NewInt(1)))
	assert.Equal(t, "0xff", quantity.Format(big.NewInt(255)))
	assert.Equal(t, "-0x10", quantity.Format(big.NewInt(-16)))
	assert.Equal(t, "0x5208", quantity.Format(quantity.FromUint64(21000)))
}

func TestCanonicalizeRoundTrip(t *testing.T) {
	tests := map[string]string{
		"0x0":                    "0x0",
		"0x000":                  "0x0",
		"0x00ff":                 "0xff",
		"0XABCDEF":               "0xabcdef",
		"abc":                    "0xabc",
		"-0x0010":                "-0x10",
		"0xffffffffffffffffffff": "0xffffffffffffffffffff",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got, err := quantity.Canonicalize(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// Canonical output is a fixed point.
			again, err := quantity.Canonicalize(got)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestCanonicalizeMalformed(t *testing.T) {
	_, err := quantity.Canonicalize("0xzz")
	assert.ErrorIs(t, err, quantity.ErrMalformedQuantity)
}

// ---------------------------------------------------------------------------
// MulFrac
// ---------------------------------------------------------------------------

func TestMulFracFloors(t *testing.T) {
	assert.Equal(t, int64(28_500_000), quantity.MulFrac(big.NewInt(30_000_000), 19, 20).Int64())
	assert.Equal(t, int64(27_000_000), quantity.MulFrac(big.NewInt(30_000_000), 9, 10).Int64())
	assert.Equal(t, int64(31_500), quantity.MulFrac(big.NewInt(21_000), 3, 2).Int64())
	// 7 * 3 / 2 = 10.5 -> 10
	assert.Equal(t, int64(10), quantity.MulFrac(big.NewInt(7), 3, 2).Int64())
	// 19 * 19 / 20 = 18.05 -> 18
	assert.Equal(t, int64(18), quantity.MulFrac(big.NewInt(19), 19, 20).Int64())
}

func TestMulFracDoesNotMutateInput(t *testing.T) {
	x := big.NewInt(100)
	_ = quantity.MulFrac(x, 3, 2)
	assert.Equal(t, int64(100), x.Int64())
}

func TestMulFracLargeValues(t *testing.T) {
	x, err := quantity.Parse("0xffffffffffffffffffffffffffffffff")
	require.NoError(t, err)
	got := quantity.MulFrac(x, 9, 10)
	want := new(big.Int).Div(new(big.Int).Mul(x, big.NewInt(9)), big.NewInt(10))
	assert.Equal(t, 0, want.Cmp(got))
}

func TestMulFracZeroDenominatorPanics(t *testing.T) {
	assert.Panics(t, func() { quantity.MulFrac(big.NewInt(1), 1, 0) })
}

// ---------------------------------------------------------------------------
// IsSafeInteger
// ---------------------------------------------------------------------------

func TestIsSafeInteger(t *testing.T) {
	assert.True(t, quantity.IsSafeInteger(big.NewInt(1)))
	assert.True(t, quantity.IsSafeInteger(quantity.MaxSafeInteger))
	assert.False(t, quantity.IsSafeInteger(new(big.Int).Add(quantity.MaxSafeInteger, big.NewInt(1))))
	assert.False(t, quantity.IsSafeInteger(big.NewInt(-1)))
	assert.False(t, quantity.IsSafeInteger(nil))
}
