package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"caseflow/models"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage case tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list <case-id>",
	Short: "List a case's tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPI()
		if err != nil {
			return err
		}

		tasks, err := api.ListTasks(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}

		for _, t := range tasks {
			mark := " "
			if t.Done {
				mark = "x"
			}
			due := ""
			if t.Due != nil {
				due = "due " + humanize.Time(*t.Due)
			}
			fmt.Printf("[%s] %-12s  %-40s  %s\n", mark, t.ID, t.Title, due)
		}
		return nil
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <case-id> <title>",
	Short: "Add a task to a case",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPI()
		if err != nil {
			return err
		}

		draft := models.TaskDraft{Title: args[1]}
		if dueStr, _ := cmd.Flags().GetString("due"); dueStr != "" {
			due, err := time.Parse("2006-01-02", dueStr)
			if err != nil {
				return fmt.Errorf("invalid --due date %q: %w", dueStr, err)
			}
			draft.Due = &due
		}

		t, err := api.CreateTask(cmd.Context(), args[0], draft)
		if err != nil {
			return err
		}
		fmt.Printf("Added task %s\n", t.ID)
		return nil
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task complete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPI()
		if err != nil {
			return err
		}

		if err := api.CompleteTask(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Task %s done\n", args[0])
		return nil
	},
}

func init() {
	tasksAddCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")

	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksDoneCmd)
	rootCmd.AddCommand(tasksCmd)
}
