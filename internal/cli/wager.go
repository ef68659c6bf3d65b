package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newWagerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "wager <identity> <amount>",
		Short: "Flip against the house",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			var result SoloResult

			req := map[string]any{"identity": args[0], "amount": amount}
			if err := a.client.Post(cmd.Context(), "/wagers", req, &result); err != nil {
				return err
			}

			a.output(cmd).Print(result)

			return nil
		},
	}
}
