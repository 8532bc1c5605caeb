package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newMissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Mission commands",
	}

	cmd.AddCommand(newMissionListCmd())
	cmd.AddCommand(newMissionGetCmd())
	cmd.AddCommand(newMissionCreateCmd())
	cmd.AddCommand(newMissionDeleteCmd())

	return cmd
}

func newMissionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <game-id>",
		Short: "List missions visible to you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Mission

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/missions", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMissionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id> <mission-id>",
		Short: "Get a mission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Mission

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/missions/%s", args[0], args[1]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMissionCreateCmd() *cobra.Command {
	var (
		description string
		location    string
		humans      bool
		zombies     bool
		start       string
		end         string
	)

	cmd := &cobra.Command{
		Use:   "create <game-id> <name>",
		Short: "Create a mission (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("invalid start time: %w", err)
			}
			endTime, err := time.Parse(time.RFC3339, end)
			if err != nil {
				return fmt.Errorf("invalid end time: %w", err)
			}

			req := map[string]any{
				"name":               args[1],
				"visible_to_humans":  humans,
				"visible_to_zombies": zombies,
				"start_time":         startTime,
				"end_time":           endTime,
			}
			if description != "" {
				req["description"] = description
			}
			if location != "" {
				req["location"] = location
			}

			var result Mission
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/missions", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Mission briefing")
	cmd.Flags().StringVar(&location, "location", "", "Mission location")
	cmd.Flags().BoolVar(&humans, "humans", false, "Visible to humans")
	cmd.Flags().BoolVar(&zombies, "zombies", false, "Visible to zombies")
	cmd.Flags().StringVar(&start, "start", "", "Start time (RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "End time (RFC 3339)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newMissionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id> <mission-id>",
		Short: "Delete a mission (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/games/%s/missions/%s", args[0], args[1])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Mission deleted")
			return nil
		},
	}
}
