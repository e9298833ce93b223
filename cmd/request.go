package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3gate/internal/config"
	"github.com/Mohsinsiddi/w3gate/internal/server"
)

var (
	reqOrigin  string
	reqApprove string
)

var requestCmd = &cobra.Command{
	Use:   "request <json | ->",
	Short: "Dispatch one JSON-RPC request as a dApp would",
	Long: `Dispatch a JSON-RPC request body, single or batch, through the same server
"w3gate serve" runs and print the JSON-RPC response.

Pass "-" to read the body from stdin. Interactive approval reads the terminal,
so a body on stdin needs --approve always or --approve never.

Examples:
  w3gate request '{"id":1,"method":"eth_chainId"}'
  w3gate request --origin https://app.example '{"id":1,"method":"wallet_switchEthereumChain","params":[{"chainId":"0x2105"}]}'
  cat add-gnosis.json | w3gate request --approve always -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := reqApprove
		if mode == "" {
			mode = cfg.ApprovalMode
		}

		body := []byte(args[0])
		if args[0] == "-" {
			if mode == config.ApprovalAsk {
				return fmt.Errorf("--approve ask cannot be combined with a request on stdin")
			}
			var err error
			if body, err = io.ReadAll(cmd.InOrStdin()); err != nil {
				return fmt.Errorf("reading request: %w", err)
			}
		}

		orch, err := newOrchestrator(mode, os.Stdin, os.Stderr)
		if err != nil {
			return err
		}

		out, err := dispatch(cmd.Context(), orch, body, reqOrigin)
		if err != nil {
			return err
		}
		if len(bytes.TrimSpace(out)) == 0 {
			return nil
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, out, "", "  "); err != nil {
			pretty.Reset()
			pretty.Write(out)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(pretty.String()))
		return nil
	},
}

// dispatch pushes body through the JSON-RPC server `serve` runs and returns
// its raw response. An empty origin is attributed to LocalOrigin.
func dispatch(ctx context.Context, h server.Handler, body []byte, origin string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	srv, err := server.New(h, nil, log)
	if err != nil {
		return nil, err
	}
	return srv.Dispatch(ctx, bytes.TrimSpace(body), origin)
}

func init() {
	requestCmd.Flags().StringVar(&reqOrigin, "origin", "", "dApp origin sent as the Origin header (default: \"local\")")
	requestCmd.Flags().StringVar(&reqApprove, "approve", "", "approval mode: ask|always|never (default: config)")
}
