package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSquadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "squad",
		Short: "Squad commands",
	}

	cmd.AddCommand(newSquadCreateCmd())
	cmd.AddCommand(newSquadListCmd())
	cmd.AddCommand(newSquadGetCmd())
	cmd.AddCommand(newSquadJoinCmd())
	cmd.AddCommand(newSquadLeaveCmd())
	cmd.AddCommand(newSquadRenameCmd())
	cmd.AddCommand(newSquadDisbandCmd())

	return cmd
}

func newSquadCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <game-id> <player-id> <name>",
		Short: "Found a squad with yourself as the first member",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"player_id": args[1],
				"name":      args[2],
			}

			var result Squad
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/squads", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSquadListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <game-id>",
		Short: "List squads in a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []SquadSummary

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/squads", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSquadGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id> <squad-id>",
		Short: "Get a squad with its roster (members only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Squad

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/squads/%s", args[0], args[1]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSquadJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <game-id> <squad-id> <player-id>",
		Short: "Join a squad",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"player_id": args[2]}

			var result Squad
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/squads/%s/join", args[0], args[1]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSquadLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <game-id> <squad-id> <player-id>",
		Short: "Leave a squad",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"player_id": args[2]}

			var result SquadSummary
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/squads/%s/leave", args[0], args[1]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left squad %s", result.Name))
			return nil
		},
	}
}

func newSquadRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <game-id> <squad-id> <name>",
		Short: "Rename a squad (admin only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[2]}

			var result Squad
			if err := client.Put(fmt.Sprintf("/api/v1/games/%s/squads/%s", args[0], args[1]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSquadDisbandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disband <game-id> <squad-id>",
		Short: "Disband a squad and its channel (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/games/%s/squads/%s", args[0], args[1])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Squad disbanded")
			return nil
		},
	}
}
