package cmd

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/w3gate/internal/approval"
	"github.com/Mohsinsiddi/w3gate/internal/quantity"
)

// ---------------------------------------------------------------------------
// parseChainArg
// ---------------------------------------------------------------------------

func TestParseChainArg(t *testing.T) {
	tests := map[string]string{
		"0x1":      "0x1",
		"0x2105":   "0x2105",
		"0X89":     "0x89",
		"8453":     "0x2105",
		" 137 ":    "0x89",
		"base":     "0x2105",
		"Ethereum": "0x1",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got, err := parseChainArg(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseChainArgInvalid(t *testing.T) {
	for _, in := range []string{"", "0x", "0x01", "0xzz", "0", "-5", "mainnet-ish", "9007199254740992"} {
		t.Run(in, func(t *testing.T) {
			_, err := parseChainArg(in)
			assert.Error(t, err)
		})
	}
}

// ---------------------------------------------------------------------------
// parseAmount / formatAmount
// ---------------------------------------------------------------------------

func TestParseAmount(t *testing.T) {
	n, err := parseAmount("")
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = parseAmount("0x5208")
	require.NoError(t, err)
	assert.Equal(t, int64(21000), n.Int64())

	n, err = parseAmount("1000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", n.String())

	_, err = parseAmount("1.5")
	assert.ErrorIs(t, err, quantity.ErrMalformedQuantity)

	_, err = parseAmount("-1")
	assert.Error(t, err)

	_, err = parseAmount("0xnope")
	assert.ErrorIs(t, err, quantity.ErrMalformedQuantity)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0x5208 (21000)", formatAmount(big.NewInt(21000)))
	assert.Equal(t, "-", formatAmount(nil))
}

// ---------------------------------------------------------------------------
// newPrompter
// ---------------------------------------------------------------------------

func TestNewPrompterFixedModes(t *testing.T) {
	always, err := newPrompter("always", nil, nil)
	require.NoError(t, err)
	ok, err := always.Prompt(context.Background(), approval.Request{})
	require.NoError(t, err)
	assert.True(t, ok)

	never, err := newPrompter("never", nil, nil)
	require.NoError(t, err)
	ok, err = never.Prompt(context.Background(), approval.Request{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewPrompterAskHonoursCancellation(t *testing.T) {
	ask, err := newPrompter("ask", strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := ask.Prompt(ctx, approval.Request{Type: approval.TypeAddChain, Origin: "https://dapp.example"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestNewPrompterUnknownMode(t *testing.T) {
	_, err := newPrompter("sometimes", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sometimes")
}

func TestPromptTitle(t *testing.T) {
	add := promptTitle(approval.Request{Type: approval.TypeAddChain, Origin: "https://a.example"})
	assert.Contains(t, add, "https://a.example")
	assert.Contains(t, add, "add a network")

	sw := promptTitle(approval.Request{Type: approval.TypeSwitchChain, Origin: "https://b.example"})
	assert.Contains(t, sw, "switch the network")
}
