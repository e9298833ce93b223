package network_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/w3gate/internal/network"
)

func TestCurrentFallsBackToDefault(t *testing.T) {
	reg := network.NewMemoryStore(network.Configuration{ID: "eth", ChainID: "0x1", RPCURL: "https://eth"})
	a, err := network.OpenActiveStore("", reg, "0x01")
	require.NoError(t, err)

	cur, err := a.Current("https://app.example")
	require.NoError(t, err)
	assert.Equal(t, network.Active{ChainID: "0x1", RPCURL: "https://eth", ConfigID: "eth"}, cur)
}

func TestCurrentUnknownDefault(t *testing.T) {
	a, err := network.OpenActiveStore("", network.NewMemoryStore(), "0x5")
	require.NoError(t, err)
	cur, err := a.Current("o")
	require.NoError(t, err)
	assert.Equal(t, "0x5", cur.ChainID)
	assert.Empty(t, cur.RPCURL)
}

func TestSetActivePerOrigin(t *testing.T) {
	reg := network.NewMemoryStore(
		network.Configuration{ID: "eth", ChainID: "0x1", RPCURL: "https://eth"},
		network.Configuration{ID: "base", ChainID: "0x2105", RPCURL: "https://base"},
	)
	a, err := network.OpenActiveStore("", reg, "0x1")
	require.NoError(t, err)

	require.NoError(t, a.SetActive("https://a.example", "base"))

	cur, _ := a.Current("https://a.example")
	assert.Equal(t, "0x2105", cur.ChainID)
	assert.Equal(t, "https://base", cur.RPCURL)

	other, _ := a.Current("https://b.example")
	assert.Equal(t, "0x1", other.ChainID)
}

func TestSetActiveUnknownConfig(t *testing.T) {
	a, err := network.OpenActiveStore("", network.NewMemoryStore(), "0x1")
	require.NoError(t, err)

	err = a.SetActive("o", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, network.ErrActivation)
	assert.ErrorIs(t, err, network.ErrNetworkNotFound)
	assert.Empty(t, a.Origins())
}

func TestActiveStorePersists(t *testing.T) {
	dir := t.TempDir()
	reg, err := network.OpenStore(filepath.Join(dir, "networks.json"))
	require.NoError(t, err)
	base := reg.FindByChainID("0x2105")
	require.NotNil(t, base)

	path := filepath.Join(dir, "active.json")
	a, err := network.OpenActiveStore(path, reg, "0x1")
	require.NoError(t, err)
	require.NoError(t, a.SetActive("https://app.example", base.ID))

	reopened, err := network.OpenActiveStore(path, reg, "0x1")
	require.NoError(t, err)
	cur, err := reopened.Current("https://app.example")
	require.NoError(t, err)
	assert.Equal(t, base.ID, cur.ConfigID)
	assert.Equal(t, map[string]string{"https://app.example": base.ID}, reopened.Origins())
}

func TestCurrentFallsBackWhenSelectionRemoved(t *testing.T) {
	reg := network.NewMemoryStore(
		network.Configuration{ID: "eth", ChainID: "0x1", RPCURL: "https://eth"},
		network.Configuration{ID: "x", ChainID: "0x10", RPCURL: "https://x"},
	)
	a, _ := network.OpenActiveStore("", reg, "0x1")
	require.NoError(t, a.SetActive("o", "x"))
	require.NoError(t, reg.Remove("x"))

	cur, err := a.Current("o")
	require.NoError(t, err)
	assert.Equal(t, "eth", cur.ConfigID)
}

func TestOpenActiveStoreBadDefault(t *testing.T) {
	_, err := network.OpenActiveStore("", network.NewMemoryStore(), "mainnet")
	assert.Error(t, err)
}

func TestActiveStoresSharingAFileSeeEachOthersWrites(t *testing.T) {
	dir := t.TempDir()
	reg, err := network.OpenStore(filepath.Join(dir, "networks.json"))
	require.NoError(t, err)
	base := reg.FindByChainID("0x2105")
	polygon := reg.FindByChainID("0x89")
	require.NotNil(t, base)
	require.NotNil(t, polygon)

	path := filepath.Join(dir, "active.json")
	server, err := network.OpenActiveStore(path, reg, "0x1")
	require.NoError(t, err)
	cli, err := network.OpenActiveStore(path, reg, "0x1")
	require.NoError(t, err)

	require.NoError(t, cli.SetActive("local", base.ID))
	cur, err := server.Current("local")
	require.NoError(t, err)
	assert.Equal(t, base.ID, cur.ConfigID)

	require.NoError(t, server.SetActive("https://dapp.example", polygon.ID))
	assert.Equal(t, map[string]string{
		"local":                base.ID,
		"https://dapp.example": polygon.ID,
	}, cli.Origins())
}
