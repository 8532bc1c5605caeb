package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newChannelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Channel commands",
	}

	cmd.AddCommand(newChannelListCmd())
	cmd.AddCommand(newChannelCreateCmd())
	cmd.AddCommand(newChannelRenameCmd())
	cmd.AddCommand(newChannelDeleteCmd())

	return cmd
}

func newChannelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <game-id>",
		Short: "List channels you can see in a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Channel

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/channels", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newChannelCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <game-id> <name>",
		Short: "Create a global channel (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[1]}

			var result Channel
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/channels", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newChannelRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <game-id> <channel-id> <name>",
		Short: "Rename a channel (admin only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[2]}

			var result Channel
			if err := client.Put(fmt.Sprintf("/api/v1/games/%s/channels/%s", args[0], args[1]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newChannelDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id> <channel-id>",
		Short: "Delete a global channel (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/games/%s/channels/%s", args[0], args[1])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Channel deleted")
			return nil
		},
	}
}
