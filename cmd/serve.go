package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3gate/internal/server"
	"github.com/Mohsinsiddi/w3gate/internal/ui"
)

var (
	serveAddr    string
	serveApprove string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local JSON-RPC endpoint for dApp requests",
	Long: `Serve wallet_addEthereumChain, wallet_switchEthereumChain and eth_chainId
over JSON-RPC on HTTP. The caller's Origin header selects the per-site active
network. Approval prompts are shown one at a time on this terminal.

Stop with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.ServeAddr
		}
		mode := serveApprove
		if mode == "" {
			mode = cfg.ApprovalMode
		}

		orch, err := newOrchestrator(mode, os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		srv, err := server.New(orch, cfg.CORSOrigins, log)
		if err != nil {
			return err
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Println(ui.Banner(Version))
		fmt.Println(ui.Info(fmt.Sprintf("listening on http://%s  (approval: %s)", addr, mode)))
		fmt.Println(ui.Hint("stop with Ctrl+C"))
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: config serve_addr)")
	serveCmd.Flags().StringVar(&serveApprove, "approve", "", "approval mode: ask|always|never (default: config)")
}
