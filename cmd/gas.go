package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3gate/internal/chain"
	"github.com/Mohsinsiddi/w3gate/internal/gas"
	"github.com/Mohsinsiddi/w3gate/internal/quantity"
	"github.com/Mohsinsiddi/w3gate/internal/server"
	"github.com/Mohsinsiddi/w3gate/internal/ui"
)

var (
	gasFrom    string
	gasTo      string
	gasData    string
	gasValue   string
	gasLimit   string
	gasChainID string
	gasRPC     string
	gasJSON    bool
)

var gasCmd = &cobra.Command{
	Use:   "gas",
	Short: "Gas limit tools",
}

var gasEstimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Compute the gas limit for a transaction",
	Long: `Compute a safe gas limit for a transaction against the latest block.

A caller-supplied --gas is kept as is. A plain transfer to an address with no
code gets 21000. Anything else is simulated with eth_estimateGas and buffered
by 1.5x, capped at 90% of the block gas limit. A failed simulation is
reported, not treated as an error.

--value and --gas take 0x-hex or decimal wei.

Examples:
  w3gate gas estimate --from 0xAb.. --to 0xCd.. --value 0xde0b6b3a7640000
  w3gate gas estimate --from 0xAb.. --to 0xToken.. --data 0xa9059cbb... --chain-id base
  w3gate gas estimate --from 0xAb.. --data 0x6080... --rpc http://127.0.0.1:8545`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rpcURL, label, err := resolveGasEndpoint()
		if err != nil {
			return err
		}
		value, err := parseAmount(gasValue)
		if err != nil {
			return fmt.Errorf("invalid --value: %w", err)
		}
		limit, err := parseAmount(gasLimit)
		if err != nil {
			return fmt.Errorf("invalid --gas: %w", err)
		}

		ctx, cancel := contextWithTimeout(cmd, cfg.Timeout())
		defer cancel()

		est := gas.NewEstimator(chain.NewEVMClient(rpcURL, cfg.Timeout()), log)
		res, err := est.Estimate(ctx, gas.Transaction{
			From:  gasFrom,
			To:    gasTo,
			Data:  gasData,
			Value: value,
			Gas:   limit,
		})
		if err != nil {
			return err
		}

		if gasJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(newEstimateReport(res))
		}
		printEstimate(label, res)
		return nil
	},
}

// resolveGasEndpoint picks the RPC URL from --rpc, --chain-id or the locally
// active network.
func resolveGasEndpoint() (rpcURL, label string, err error) {
	if gasRPC != "" {
		return gasRPC, gasRPC, nil
	}
	registry, active, err := openNetworks()
	if err != nil {
		return "", "", err
	}
	if gasChainID != "" {
		chainID, err := parseChainArg(gasChainID)
		if err != nil {
			return "", "", err
		}
		n := registry.FindByChainID(chainID)
		if n == nil {
			return "", "", fmt.Errorf("chain %s is not registered. Pass --rpc or run `w3gate network add`", chainID)
		}
		return n.RPCURL, fmt.Sprintf("%s (%s)", n.Nickname, n.ChainID), nil
	}
	current, err := active.Current(server.LocalOrigin)
	if err != nil {
		return "", "", err
	}
	if current.RPCURL == "" {
		return "", "", fmt.Errorf("no RPC endpoint registered for chain %s", current.ChainID)
	}
	n, err := registry.Get(current.ConfigID)
	if err != nil {
		return "", "", err
	}
	return n.RPCURL, fmt.Sprintf("%s (%s)", n.Nickname, n.ChainID), nil
}

func printEstimate(label string, res *gas.Estimate) {
	tx := res.Tx
	pairs := [][2]string{
		{"Network", ui.ChainName(label)},
		{"From", ui.Addr(tx.From)},
	}
	if tx.To != "" {
		pairs = append(pairs, [2]string{"To", ui.Addr(tx.To)})
	} else {
		pairs = append(pairs, [2]string{"To", ui.Meta("contract creation")})
	}

	if res.Failed() {
		f := res.SimulationFailure
		pairs = append(pairs,
			[2]string{"Status", ui.Warn("simulation failed")},
			[2]string{"Reason", f.Reason},
			[2]string{"Error key", f.ErrorKey},
			[2]string{"Block", f.BlockNumber.String()},
			[2]string{"Block gas limit", formatAmount(f.BlockGasLimit)},
			[2]string{"Fallback gas", formatAmount(f.FallbackGas)},
		)
		fmt.Println(ui.KeyValueBlock("Gas Estimate", pairs))
		return
	}

	pairs = append(pairs, [2]string{"Gas limit", ui.Val(formatAmount(tx.Gas))})
	switch {
	case tx.GasLimitSpecified:
		pairs = append(pairs, [2]string{"Source", "caller supplied"})
	case tx.SimpleSend:
		pairs = append(pairs, [2]string{"Source", "plain transfer"})
	default:
		pairs = append(pairs,
			[2]string{"Source", "simulation + buffer"},
			[2]string{"Estimated gas", formatAmount(tx.EstimatedGas)},
		)
	}
	fmt.Println(ui.KeyValueBlock("Gas Estimate", pairs))
}

// estimateReport is the --json form of an estimate.
type estimateReport struct {
	Gas               string             `json:"gas,omitempty"`
	EstimatedGas      string             `json:"estimatedGas,omitempty"`
	GasLimitSpecified bool               `json:"gasLimitSpecified"`
	SimpleSend        bool               `json:"simpleSend"`
	SimulationFailure *simulationFailure `json:"simulationFails,omitempty"`
}

type simulationFailure struct {
	Reason        string `json:"reason"`
	ErrorKey      string `json:"errorKey"`
	BlockNumber   string `json:"blockNumber"`
	BlockGasLimit string `json:"blockGasLimit"`
	FallbackGas   string `json:"fallbackGas"`
}

func newEstimateReport(res *gas.Estimate) estimateReport {
	r := estimateReport{
		GasLimitSpecified: res.Tx.GasLimitSpecified,
		SimpleSend:        res.Tx.SimpleSend,
	}
	if res.Tx.Gas != nil {
		r.Gas = quantity.Format(res.Tx.Gas)
	}
	if res.Tx.EstimatedGas != nil {
		r.EstimatedGas = quantity.Format(res.Tx.EstimatedGas)
	}
	if f := res.SimulationFailure; f != nil {
		r.SimulationFailure = &simulationFailure{
			Reason:        f.Reason,
			ErrorKey:      f.ErrorKey,
			BlockNumber:   quantity.Format(f.BlockNumber),
			BlockGasLimit: quantity.Format(f.BlockGasLimit),
			FallbackGas:   quantity.Format(f.FallbackGas),
		}
	}
	return r
}

func init() {
	gasEstimateCmd.Flags().StringVar(&gasFrom, "from", "", "sender address (required)")
	gasEstimateCmd.Flags().StringVar(&gasTo, "to", "", "recipient address (omit for contract creation)")
	gasEstimateCmd.Flags().StringVar(&gasData, "data", "", "calldata (hex)")
	gasEstimateCmd.Flags().StringVar(&gasValue, "value", "", "value in wei")
	gasEstimateCmd.Flags().StringVar(&gasLimit, "gas", "", "caller-supplied gas limit")
	gasEstimateCmd.Flags().StringVar(&gasChainID, "chain-id", "", "registered chain to estimate on (default: active network)")
	gasEstimateCmd.Flags().StringVar(&gasRPC, "rpc", "", "RPC endpoint URL, overrides --chain-id")
	gasEstimateCmd.Flags().BoolVar(&gasJSON, "json", false, "print the result as JSON")
	_ = gasEstimateCmd.MarkFlagRequired("from")

	gasCmd.AddCommand(gasEstimateCmd)
}
