package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"caseflow/config"
	"caseflow/logger"
	"caseflow/models"
	"caseflow/workflow"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Launch backend agentic workflows",
}

var workflowRunCmd = &cobra.Command{
	Use:   "run <case-id> <name>",
	Short: "Run a workflow against a case",
	Long: `Run launches a backend agentic workflow (report generation, triage, ...)
against a case and follows its progress until it finishes.

With --demo no backend call is made; the workflow's step sequence is played
back locally on a fixed cadence.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseID, name := args[0], args[1]
		interval, _ := cmd.Flags().GetDuration("interval")

		if demo, _ := cmd.Flags().GetBool("demo"); demo {
			steps, ok := workflow.DemoSteps[name]
			if !ok {
				return fmt.Errorf("no demo for workflow %q (have: %s)", name, strings.Join(demoNames(), ", "))
			}

			// Demo mode never talks to the backend, so no config validation.
			cfg := config.Load()
			log := logger.New(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})

			stepper := workflow.NewStepper(clockwork.NewRealClock(), interval, log)
			err := stepper.Run(cmd.Context(), steps, func(i int, step string) {
				fmt.Printf("[%d/%d] %s\n", i+1, len(steps), step)
			})
			if err != nil {
				return err
			}
			fmt.Println("Demo complete.")
			return nil
		}

		api, log, err := newAPI()
		if err != nil {
			return err
		}

		run, err := api.LaunchWorkflow(cmd.Context(), caseID, name)
		if err != nil {
			return err
		}
		fmt.Printf("Launched %s (run %s)\n", name, run.ID)

		watcher := workflow.NewWatcher(api, clockwork.NewRealClock(), interval, log)
		final, err := watcher.Wait(cmd.Context(), run.ID, func(r *models.WorkflowRun) {
			if r.Step >= 0 && r.Step < len(r.Steps) {
				fmt.Printf("[%d/%d] %s\n", r.Step+1, len(r.Steps), r.Steps[r.Step])
			}
		})
		if err != nil {
			return err
		}
		fmt.Printf("Workflow %s %s\n", final.Name, final.Status)
		return nil
	},
}

func demoNames() []string {
	names := make([]string, 0, len(workflow.DemoSteps))
	for name := range workflow.DemoSteps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	workflowRunCmd.Flags().Bool("demo", false, "play the workflow's demo steps locally")
	workflowRunCmd.Flags().Duration("interval", 2*time.Second, "poll/step interval")

	workflowCmd.AddCommand(workflowRunCmd)
	rootCmd.AddCommand(workflowCmd)
}
