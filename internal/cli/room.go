package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newRoomCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room commands",
	}

	cmd.AddCommand(newRoomListCmd(a))
	cmd.AddCommand(newRoomGetCmd(a))
	cmd.AddCommand(newRoomCreateCmd(a))
	cmd.AddCommand(newRoomJoinCmd(a))
	cmd.AddCommand(newRoomResolveCmd(a))
	cmd.AddCommand(newRoomUpdateCmd(a))
	cmd.AddCommand(newRoomDeleteCmd(a))

	return cmd
}

func roomPath(id string) string {
	return "/rooms/" + url.PathEscape(id)
}

func newRoomListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rooms that are waiting or playing",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []RoomSummary

			if err := a.client.Get(cmd.Context(), "/rooms", &result); err != nil {
				return err
			}

			a.output(cmd).Print(result)

			return nil
		},
	}
}

func newRoomGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <room-id>",
		Short: "Show a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomSummary

			if err := a.client.Get(cmd.Context(), roomPath(args[0]), &result); err != nil {
				return err
			}

			a.output(cmd).Print(result)

			return nil
		},
	}
}

func newRoomCreateCmd(a *app) *cobra.Command {
	var (
		identity string
		stake    int64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a room with a fixed stake",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"identity": identity, "stake": stake}

			var result Room

			if err := a.client.Post(cmd.Context(), "/rooms", req, &result); err != nil {
				return err
			}

			a.output(cmd).Print(result)

			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Host identity (required)")
	cmd.Flags().Int64Var(&stake, "stake", 0, "Stake in tokens (required)")
	_ = cmd.MarkFlagRequired("identity")
	_ = cmd.MarkFlagRequired("stake")

	return cmd
}

func newRoomJoinCmd(a *app) *cobra.Command {
	var identity string

	cmd := &cobra.Command{
		Use:   "join <room-id>",
		Short: "Join a waiting room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			req := map[string]string{"identity": identity}
			if err := a.client.Post(cmd.Context(), roomPath(args[0])+"/join", req, &result); err != nil {
				return err
			}

			a.output(cmd).Print(result)

			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "Joiner identity (required)")
	_ = cmd.MarkFlagRequired("identity")

	return cmd
}

func newRoomResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <room-id>",
		Short: "Flip the coin for a playing room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomResult

			if err := a.client.Post(cmd.Context(), roomPath(args[0])+"/resolve", nil, &result); err != nil {
				return err
			}

			a.output(cmd).Print(result)

			return nil
		},
	}
}

func newRoomUpdateCmd(a *app) *cobra.Command {
	var status, winner string

	cmd := &cobra.Command{
		Use:   "update <room-id>",
		Short: "Set the status or winner of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if status == "" && winner == "" {
				return fmt.Errorf("one of --status or --winner is required")
			}

			req := map[string]string{}
			if status != "" {
				req["status"] = status
			}

			if winner != "" {
				req["winner"] = winner
			}

			var result Room

			if err := a.client.Patch(cmd.Context(), roomPath(args[0]), req, &result); err != nil {
				return err
			}

			a.output(cmd).Print(result)

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "New status: WAITING, PLAYING, FINISHED")
	cmd.Flags().StringVar(&winner, "winner", "", "Winner identity")

	return cmd
}

func newRoomDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <room-id>",
		Short: "Delete a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DeleteResult

			if err := a.client.Delete(cmd.Context(), roomPath(args[0]), &result); err != nil {
				return err
			}

			a.output(cmd).Print(result)

			return nil
		},
	}
}
