package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3gate/internal/chainreq"
	"github.com/Mohsinsiddi/w3gate/internal/config"
	"github.com/Mohsinsiddi/w3gate/internal/network"
	"github.com/Mohsinsiddi/w3gate/internal/probe"
	"github.com/Mohsinsiddi/w3gate/internal/server"
	"github.com/Mohsinsiddi/w3gate/internal/ui"
)

var (
	netOrigin   string
	netName     string
	netRPC      string
	netTicker   string
	netExplorer string
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Inspect and manage registered networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, active, err := openNetworks()
		if err != nil {
			return err
		}
		current, err := active.Current(server.LocalOrigin)
		if err != nil {
			return err
		}

		t := ui.NewTable(
			ui.Column{Title: "Chain ID", Width: 10},
			ui.Column{Title: "Name", Width: 20},
			ui.Column{Title: "Ticker", Width: 7},
			ui.Column{Title: "RPC", Width: 34},
			ui.Column{Title: "Source", Width: 7},
			ui.Column{Title: "ID", Width: 8},
		)
		for i, n := range registry.All() {
			if n.ID == current.ConfigID {
				t.Marked = i
			}
			t.AddRow(n.ChainID, n.Nickname, n.Ticker, n.RPCURL, n.Source, ui.Truncate(n.ID, 8))
		}

		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d networks · %s", len(t.Rows), cfg.NetworksPath())))
		return nil
	},
}

var networkActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the active network for an origin",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, active, err := openNetworks()
		if err != nil {
			return err
		}
		current, err := active.Current(netOrigin)
		if err != nil {
			return err
		}

		pairs := [][2]string{
			{"Origin", netOrigin},
			{"Chain ID", current.ChainID},
		}
		if current.ConfigID == "" {
			pairs = append(pairs, [2]string{"Network", ui.Warn("not registered")})
			fmt.Println(ui.KeyValueBlock("Active Network", pairs))
			return nil
		}
		n, err := registry.Get(current.ConfigID)
		if err != nil {
			return err
		}
		pairs = append(pairs,
			[2]string{"Network", ui.ChainName(n.Nickname)},
			[2]string{"RPC", ui.Addr(n.RPCURL)},
			[2]string{"Ticker", n.Ticker},
		)
		if _, explicit := active.Origins()[netOrigin]; !explicit {
			pairs = append(pairs, [2]string{"Selection", ui.Meta("default (" + cfg.DefaultChainID + ")")})
		}
		fmt.Println(ui.KeyValueBlock("Active Network", pairs))
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <chain>",
	Short: "Make a registered network active for an origin",
	Long: `Make a registered network active for an origin without an approval prompt.

<chain> is a chain id (0x2105 or 8453) or a preset name (base).

Examples:
  w3gate network use base
  w3gate network use 0x89 --origin https://app.uniswap.org`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainID, err := parseChainArg(args[0])
		if err != nil {
			return err
		}
		registry, active, err := openNetworks()
		if err != nil {
			return err
		}
		n := registry.FindByChainID(chainID)
		if n == nil {
			return fmt.Errorf("chain %s is not registered. Run `w3gate network list` to see all networks", chainID)
		}
		if err := active.SetActive(netOrigin, n.ID); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s is now active for %s", ui.ChainName(n.Nickname), netOrigin)))
		return nil
	},
}

var networkAddCmd = &cobra.Command{
	Use:   "add <chain-id>",
	Short: "Register or update a network by hand",
	Long: `Register a network as the local user. The entry goes through the same
checks as a dApp's wallet_addEthereumChain request, except the ticker may
differ from an existing entry for the chain.

Example:
  w3gate network add 0x64 --name Gnosis --rpc https://rpc.gnosischain.com --ticker xDAI`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainID, err := parseChainArg(args[0])
		if err != nil {
			return err
		}
		params := map[string]interface{}{
			"chainId": chainID,
			"rpcUrls": []interface{}{netRPC},
		}
		if netName != "" {
			params["chainName"] = netName
		}
		if netTicker != "" {
			params["nativeCurrency"] = map[string]interface{}{"symbol": netTicker, "decimals": 18}
		}
		if netExplorer != "" {
			params["blockExplorerUrls"] = []interface{}{netExplorer}
		}
		req, err := chainreq.Validate([]interface{}{params}, nil)
		if err != nil {
			return err
		}

		registry, _, err := openNetworks()
		if err != nil {
			return err
		}
		id, err := registry.Upsert(network.Configuration{
			ChainID:          req.ChainID,
			Nickname:         req.ChainName,
			RPCURL:           req.RPCURL,
			Ticker:           req.Ticker,
			BlockExplorerURL: req.BlockExplorerURL,
		}, network.Provenance{Source: network.SourceUser})
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s (%s) saved as %s", ui.ChainName(req.ChainName), req.ChainID, id)))
		return nil
	},
}

var networkRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a registry entry by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, _, err := openNetworks()
		if err != nil {
			return err
		}
		n, err := registry.Get(args[0])
		if err != nil {
			return err
		}
		if !ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Remove %s (%s)?", n.Nickname, n.RPCURL)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		if err := registry.Remove(n.ID); err != nil {
			return err
		}
		fmt.Println(ui.Success("Removed " + n.Nickname))
		return nil
	},
}

var networkProbeCmd = &cobra.Command{
	Use:   "probe [chain]",
	Short: "Check that RPC endpoints answer for the chain they are registered under",
	Long: `Ask each registered endpoint for eth_chainId and its head block. Without
an argument every registered network is probed in parallel.

Examples:
  w3gate network probe
  w3gate network probe base`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, _, err := openNetworks()
		if err != nil {
			return err
		}

		var targets []probe.Target
		if len(args) == 1 {
			chainID, err := parseChainArg(args[0])
			if err != nil {
				return err
			}
			n := registry.FindByChainID(chainID)
			if n == nil {
				return fmt.Errorf("chain %s is not registered", chainID)
			}
			targets = append(targets, probe.Target{Name: n.Nickname, ChainID: n.ChainID, URL: n.RPCURL})
		} else {
			for _, n := range registry.All() {
				targets = append(targets, probe.Target{Name: n.Nickname, ChainID: n.ChainID, URL: n.RPCURL})
			}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		results := probe.All(ctx, targets, config.ProbeTimeout)

		t := ui.NewTable(
			ui.Column{Title: "Network", Width: 20},
			ui.Column{Title: "Chain ID", Width: 10},
			ui.Column{Title: "Block", Width: 12},
			ui.Column{Title: "Latency", Width: 9},
			ui.Column{Title: "Status", Width: 40},
		)
		failed := 0
		for _, r := range results {
			block, latency, status := "-", "-", "ok"
			if r.Block != nil {
				block = r.Block.String()
			}
			if r.Reported != "" {
				latency = r.Latency.Round(time.Millisecond).String()
			}
			if !r.Healthy() {
				failed++
				status = r.Err.Error()
			}
			t.AddRow(r.Name, r.ChainID, block, latency, status)
		}
		fmt.Println(t.Render())

		if failed > 0 {
			fmt.Println(ui.Warn(fmt.Sprintf("%d of %d endpoints failed", failed, len(results))))
			return fmt.Errorf("%d endpoints failed", failed)
		}
		fmt.Println(ui.Success(fmt.Sprintf("%d endpoints healthy", len(results))))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{networkActiveCmd, networkUseCmd} {
		c.Flags().StringVar(&netOrigin, "origin", server.LocalOrigin, "dApp origin")
	}
	networkAddCmd.Flags().StringVar(&netName, "name", "", "network name (default: chain id)")
	networkAddCmd.Flags().StringVar(&netRPC, "rpc", "", "RPC endpoint URL (required)")
	networkAddCmd.Flags().StringVar(&netTicker, "ticker", "", "native currency symbol")
	networkAddCmd.Flags().StringVar(&netExplorer, "explorer", "", "block explorer URL")
	_ = networkAddCmd.MarkFlagRequired("rpc")

	networkCmd.AddCommand(
		networkListCmd,
		networkActiveCmd,
		networkUseCmd,
		networkAddCmd,
		networkRemoveCmd,
		networkProbeCmd,
	)
}
