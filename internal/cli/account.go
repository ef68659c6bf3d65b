package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newAccountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account and balance commands",
	}

	cmd.AddCommand(newAccountGetCmd(a))
	cmd.AddCommand(newAccountRegisterCmd(a))
	cmd.AddCommand(newAccountBalanceCmd(a))
	cmd.AddCommand(newAccountAdjustCmd(a))
	cmd.AddCommand(newAccountEntriesCmd(a))

	return cmd
}

func accountPath(identity string) string {
	return "/accounts/" + url.PathEscape(identity)
}

func newAccountGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <identity>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Account

			if err := a.client.Get(cmd.Context(), accountPath(args[0]), &result); err != nil {
				return err
			}

			a.output(cmd).Print(result)

			return nil
		},
	}
}

func newAccountRegisterCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "register <identity>",
		Short: "Create an account or update its display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"identity": args[0]}
			if name != "" {
				req["displayName"] = name
			}

			var result Account

			if err := a.client.Post(cmd.Context(), "/accounts", req, &result); err != nil {
				return err
			}

			a.output(cmd).Print(result)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")

	return cmd
}

func newAccountBalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <identity>",
		Short: "Show the balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Balance

			if err := a.client.Get(cmd.Context(), accountPath(args[0])+"/balance", &result); err != nil {
				return err
			}

			a.output(cmd).Print(result)

			return nil
		},
	}
}

func newAccountAdjustCmd(a *app) *cobra.Command {
	var (
		delta int64
		key   string
	)

	cmd := &cobra.Command{
		Use:   "adjust <identity>",
		Short: "Credit or debit an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if delta == 0 {
				return fmt.Errorf("--delta must not be zero")
			}

			req := map[string]any{"delta": delta}
			if key != "" {
				req["key"] = key
			}

			var result BalanceChange

			if err := a.client.Post(cmd.Context(), accountPath(args[0])+"/balance", req, &result); err != nil {
				return err
			}

			a.output(cmd).Print(result)

			return nil
		},
	}

	cmd.Flags().Int64Var(&delta, "delta", 0, "Signed amount to apply (required)")
	cmd.Flags().StringVar(&key, "key", "", "Idempotency key")
	_ = cmd.MarkFlagRequired("delta")

	return cmd
}

func newAccountEntriesCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "entries <identity>",
		Short: "Show ledger history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := accountPath(args[0]) + "/entries"
			if limit > 0 {
				path += fmt.Sprintf("?limit=%d", limit)
			}

			var result []Entry

			if err := a.client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			a.output(cmd).Print(result)

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of entries (default: server default)")

	return cmd
}
