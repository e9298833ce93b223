package network

import (
	"math/big"

	"github.com/Mohsinsiddi/w3gate/internal/quantity"
)

// Preset is a well-known EVM network the registry is seeded with.
type Preset struct {
	Slug        string
	Name        string
	ChainID     int64
	Ticker      string
	RPCURL      string
	ExplorerURL string
}

// Configuration converts the preset into a registry entry (without ID).
func (p Preset) Configuration() Configuration {
	return Configuration{
		ChainID:          quantity.Format(big.NewInt(p.ChainID)),
		Nickname:         p.Name,
		RPCURL:           p.RPCURL,
		Ticker:           p.Ticker,
		BlockExplorerURL: p.ExplorerURL,
	}
}

// PresetBySlug finds a preset by its slug (e.g. "base", "ethereum").
func PresetBySlug(slug string) (Preset, bool) {
	for _, p := range Presets() {
		if p.Slug == slug {
			return p, true
		}
	}
	return Preset{}, false
}

// Presets returns the built-in mainnet networks.
func Presets() []Preset {
	return []Preset{
		{Slug: "ethereum", Name: "Ethereum", ChainID: 1, Ticker: "ETH",
			RPCURL: "https://eth.llamarpc.com", ExplorerURL: "https://etherscan.io"},
		{Slug: "base", Name: "Base", ChainID: 8453, Ticker: "ETH",
			RPCURL: "https://mainnet.base.org", ExplorerURL: "https://basescan.org"},
		{Slug: "polygon", Name: "Polygon", ChainID: 137, Ticker: "MATIC",
			RPCURL: "https://polygon-bor-rpc.publicnode.com", ExplorerURL: "https://polygonscan.com"},
		{Slug: "arbitrum", Name: "Arbitrum", ChainID: 42161, Ticker: "ETH",
			RPCURL: "https://arb1.arbitrum.io/rpc", ExplorerURL: "https://arbiscan.io"},
		{Slug: "optimism", Name: "Optimism", ChainID: 10, Ticker: "ETH",
			RPCURL: "https://mainnet.optimism.io", ExplorerURL: "https://optimistic.etherscan.io"},
		{Slug: "bnb", Name: "BNB Chain", ChainID: 56, Ticker: "BNB",
			RPCURL: "https://bsc-dataseed.binance.org", ExplorerURL: "https://bscscan.com"},
		{Slug: "avalanche", Name: "Avalanche", ChainID: 43114, Ticker: "AVAX",
			RPCURL: "https://api.avax.network/ext/bc/C/rpc", ExplorerURL: "https://snowtrace.io"},
		{Slug: "fantom", Name: "Fantom", ChainID: 250, Ticker: "FTM",
			RPCURL: "https://rpcapi.fantom.network", ExplorerURL: "https://ftmscan.com"},
		{Slug: "linea", Name: "Linea", ChainID: 59144, Ticker: "ETH",
			RPCURL: "https://rpc.linea.build", ExplorerURL: "https://lineascan.build"},
		{Slug: "zksync", Name: "zkSync Era", ChainID: 324, Ticker: "ETH",
			RPCURL: "https://mainnet.era.zksync.io", ExplorerURL: "https://explorer.zksync.io"},
		{Slug: "scroll", Name: "Scroll", ChainID: 534352, Ticker: "ETH",
			RPCURL: "https://rpc.scroll.io", ExplorerURL: "https://scrollscan.com"},
		{Slug: "mantle", Name: "Mantle", ChainID: 5000, Ticker: "MNT",
			RPCURL: "https://rpc.mantle.xyz", ExplorerURL: "https://mantlescan.xyz"},
		{Slug: "celo", Name: "Celo", ChainID: 42220, Ticker: "CELO",
			RPCURL: "https://forno.celo.org", ExplorerURL: "https://celoscan.io"},
		{Slug: "gnosis", Name: "Gnosis", ChainID: 100, Ticker: "xDAI",
			RPCURL: "https://rpc.gnosischain.com", ExplorerURL: "https://gnosisscan.io"},
		{Slug: "blast", Name: "Blast", ChainID: 81457, Ticker: "ETH",
			RPCURL: "https://rpc.blast.io", ExplorerURL: "https://blastscan.io"},
		{Slug: "moonbeam", Name: "Moonbeam", ChainID: 1284, Ticker: "GLMR",
			RPCURL: "https://rpc.api.moonbeam.network", ExplorerURL: "https://moonscan.io"},
		{Slug: "cronos", Name: "Cronos", ChainID: 25, Ticker: "CRO",
			RPCURL: "https://evm.cronos.org", ExplorerURL: "https://cronoscan.com"},
		{Slug: "polygon-zkevm", Name: "Polygon zkEVM", ChainID: 1101, Ticker: "ETH",
			RPCURL: "https://zkevm-rpc.com", ExplorerURL: "https://zkevm.polygonscan.com"},
	}
}
