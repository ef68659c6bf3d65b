package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type app struct {
	cfg    *Config
	client *Client
}

func (a *app) output(cmd *cobra.Command) *Output {
	return NewOutput(a.cfg.Output, cmd.OutOrStdout())
}

// NewRootCmd creates the flipctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: DefaultConfig()}

	rootCmd := &cobra.Command{
		Use:   "flipctl",
		Short: "CLI tool for the fliprooms API",
		Long: `flipctl talks to the fliprooms JSON API.

It manages accounts and balances, opens and joins coin-flip rooms,
resolves them and places solo wagers against the house.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Output != "text" && a.cfg.Output != "json" {
				return fmt.Errorf("unknown output format %q", a.cfg.Output)
			}

			a.client = NewClient(a.cfg.ServerURL)

			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfg.ServerURL, "server", a.cfg.ServerURL, "Server URL (env: FLIPCTL_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&a.cfg.Output, "output", "o", a.cfg.Output, "Output format: text, json")

	rootCmd.AddCommand(newHealthCmd(a))
	rootCmd.AddCommand(newAccountCmd(a))
	rootCmd.AddCommand(newRoomCmd(a))
	rootCmd.AddCommand(newWagerCmd(a))

	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
