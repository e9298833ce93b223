package cmd

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3gate/internal/approval"
	"github.com/Mohsinsiddi/w3gate/internal/chainreq"
	"github.com/Mohsinsiddi/w3gate/internal/config"
	"github.com/Mohsinsiddi/w3gate/internal/connector"
	"github.com/Mohsinsiddi/w3gate/internal/network"
	"github.com/Mohsinsiddi/w3gate/internal/quantity"
	"github.com/Mohsinsiddi/w3gate/internal/ui"
)

// openNetworks opens the registry and the per-origin active selections.
func openNetworks() (*network.Store, *network.ActiveStore, error) {
	registry, err := network.OpenStore(cfg.NetworksPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening network registry: %w", err)
	}
	active, err := network.OpenActiveStore(cfg.ActivePath(), registry, cfg.DefaultChainID)
	if err != nil {
		return nil, nil, fmt.Errorf("opening active networks: %w", err)
	}
	return registry, active, nil
}

// newOrchestrator wires the chain mutation pipeline with a prompter for mode.
func newOrchestrator(mode string, in io.Reader, out io.Writer) (*connector.Orchestrator, error) {
	prompter, err := newPrompter(mode, in, out)
	if err != nil {
		return nil, err
	}
	registry, active, err := openNetworks()
	if err != nil {
		return nil, err
	}
	coord := approval.NewCoordinator(prompter, log)
	return connector.NewOrchestrator(registry, active, coord, log), nil
}

// newPrompter maps an approval mode to a Prompter. "ask" shows the
// interactive terminal prompt on in/out.
func newPrompter(mode string, in io.Reader, out io.Writer) (approval.Prompter, error) {
	switch mode {
	case config.ApprovalAlways:
		return approval.Always(true), nil
	case config.ApprovalNever:
		return approval.Always(false), nil
	case config.ApprovalAsk:
		return approval.PromptFunc(func(ctx context.Context, req approval.Request) (bool, error) {
			return ui.PromptApproval(ctx, in, out, promptTitle(req), req.Fields)
		}), nil
	default:
		return nil, fmt.Errorf("unknown approval mode %q (want ask, always or never)", mode)
	}
}

func promptTitle(req approval.Request) string {
	action := "Allow this site to add a network?"
	if req.Type == approval.TypeSwitchChain {
		action = "Allow this site to switch the network?"
	}
	return req.Origin + "\n" + action
}

// parseChainArg accepts a chain id as 0x-hex, decimal or a preset slug
// ("base") and returns it in canonical hex form.
func parseChainArg(s string) (string, error) {
	s = strings.TrimSpace(s)
	if p, ok := network.PresetBySlug(strings.ToLower(s)); ok {
		return quantity.Format(big.NewInt(p.ChainID)), nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		id, _, err := chainreq.ParseChainID(s)
		if err != nil {
			return "", fmt.Errorf("invalid chain id %q: %w", s, err)
		}
		return id, nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() <= 0 || !quantity.IsSafeInteger(n) {
		return "", fmt.Errorf("invalid chain id %q: want a positive integer", s)
	}
	return quantity.Format(n), nil
}

// parseAmount accepts a 0x-hex or decimal non-negative integer. Empty input
// returns nil.
func parseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var (
		n   *big.Int
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err = quantity.Parse(s)
	} else {
		var ok bool
		if n, ok = new(big.Int).SetString(s, 10); !ok {
			err = fmt.Errorf("%w: %q", quantity.ErrMalformedQuantity, s)
		}
	}
	if err != nil {
		return nil, err
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("%q is negative", s)
	}
	return n, nil
}

// formatAmount renders n as "0x5208 (21000)".
func formatAmount(n *big.Int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", quantity.Format(n), n.String())
}

// contextWithTimeout derives a deadline from the command's context.
func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, d)
}
