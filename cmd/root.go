package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3gate/internal/config"
	"github.com/Mohsinsiddi/w3gate/internal/logger"
	"github.com/Mohsinsiddi/w3gate/internal/ui"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/w3gate/cmd.Version=1.2.3" .
var Version = "0.3.0"

var (
	cfgDir    string
	cfg       *config.Config
	log       *zap.Logger
	logLevel  string
	logFormat string
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "w3gate",
	Short: "Wallet-side gateway for dApp chain requests",
	Long: `w3gate sits between untrusted dApps and your wallet.

  It validates and applies wallet_addEthereumChain / wallet_switchEthereumChain
  requests behind an approval prompt, tracks the active network per dApp
  origin, and computes simulation-backed gas limits for outgoing transactions.

Run "w3gate serve" to expose the JSON-RPC endpoint a browser bridge forwards
requests to, or use "w3gate request" for one-shot calls.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		level, format := cfg.LogLevel, cfg.LogFormat
		if logLevel != "" {
			level = logLevel
		}
		if logFormat != "" {
			format = logFormat
		}
		log, err = logger.New(level, format)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		os.Exit(1)
	}
}

func init() {
	// W3GATE_CONFIG_DIR env var overrides the --config default.
	if envDir := os.Getenv("W3GATE_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.w3gate)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (default: config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console|json (default: config)")

	rootCmd.AddCommand(
		networkCmd,
		gasCmd,
		requestCmd,
		serveCmd,
		configCmd,
	)
}
