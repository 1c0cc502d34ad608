package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Manage a case's compliance checklist",
}

var checklistShowCmd = &cobra.Command{
	Use:   "show <case-id>",
	Short: "Show the compliance checklist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPI()
		if err != nil {
			return err
		}

		items, err := api.Checklist(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No checklist items.")
			return nil
		}

		for _, item := range items {
			mark := " "
			if item.Done {
				mark = "x"
			}
			required := ""
			if item.Required {
				required = "(required)"
			}
			fmt.Printf("[%s] %-12s  %-40s %s\n", mark, item.ID, item.Label, required)
		}
		return nil
	},
}

var checklistCheckCmd = &cobra.Command{
	Use:   "check <case-id> <item-id>",
	Short: "Mark a checklist item done",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPI()
		if err != nil {
			return err
		}

		undo, _ := cmd.Flags().GetBool("undo")
		if err := api.SetChecklistItem(cmd.Context(), args[0], args[1], !undo); err != nil {
			return err
		}
		if undo {
			fmt.Printf("Unchecked %s\n", args[1])
		} else {
			fmt.Printf("Checked %s\n", args[1])
		}
		return nil
	},
}

func init() {
	checklistCheckCmd.Flags().Bool("undo", false, "mark the item not done instead")

	checklistCmd.AddCommand(checklistShowCmd, checklistCheckCmd)
	rootCmd.AddCommand(checklistCmd)
}
