package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3gate/internal/config"
	"github.com/Mohsinsiddi/w3gate/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetDefaultNetworkCmd = &cobra.Command{
	Use:   "set-default-network <chain>",
	Short: "Set the chain used when an origin has no active network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainID, err := parseChainArg(args[0])
		if err != nil {
			return err
		}
		cfg.DefaultChainID = chainID
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default network set to %s", chainID)))
		return nil
	},
}

var configSetApprovalModeCmd = &cobra.Command{
	Use:       "set-approval-mode <ask|always|never>",
	Short:     "Choose how chain requests are approved",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{config.ApprovalAsk, config.ApprovalAlways, config.ApprovalNever},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.ApprovalMode = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		msg := fmt.Sprintf("Approval mode set to %q", args[0])
		if args[0] == config.ApprovalAlways {
			fmt.Println(ui.Warn(msg + ": every dApp request will be approved without asking"))
			return nil
		}
		fmt.Println(ui.Success(msg))
		return nil
	},
}

var configSetLogLevelCmd = &cobra.Command{
	Use:       "set-log-level <debug|info|warn|error>",
	Short:     "Set the log level",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"debug", "info", "warn", "error"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.LogLevel = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Log level set to %q", args[0])))
		return nil
	},
}

func init() {
	configCmd.AddCommand(
		configListCmd,
		configSetDefaultNetworkCmd,
		configSetApprovalModeCmd,
		configSetLogLevelCmd,
	)
}
