package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newKillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kill",
		Short: "Kill commands",
	}

	cmd.AddCommand(newKillReportCmd())
	cmd.AddCommand(newKillListCmd())
	cmd.AddCommand(newKillGetCmd())
	cmd.AddCommand(newKillDeleteCmd())

	return cmd
}

func newKillReportCmd() *cobra.Command {
	var (
		timeOfDeath string
		description string
		location    string
	)

	cmd := &cobra.Command{
		Use:   "report <game-id> <killer-id> <bite-code>",
		Short: "Report a kill using the victim's bite code",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"killer_id": args[1],
				"bite_code": args[2],
			}
			if timeOfDeath != "" {
				t, err := time.Parse(time.RFC3339, timeOfDeath)
				if err != nil {
					return fmt.Errorf("invalid time of death: %w", err)
				}
				req["time_of_death"] = t
			}
			if description != "" {
				req["description"] = description
			}
			if location != "" {
				req["location"] = location
			}

			var result Kill
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/kills", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&timeOfDeath, "time", "", "Time of death (RFC 3339, defaults to now)")
	cmd.Flags().StringVar(&description, "description", "", "How it happened")
	cmd.Flags().StringVar(&location, "location", "", "Where it happened")

	return cmd
}

func newKillListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <game-id>",
		Short: "List kills in a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Kill

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/kills", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newKillGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id> <kill-id>",
		Short: "Get a kill",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Kill

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/kills/%s", args[0], args[1]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newKillDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id> <kill-id>",
		Short: "Retract a kill and revive the victim (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/games/%s/kills/%s", args[0], args[1])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Kill retracted")
			return nil
		},
	}
}
