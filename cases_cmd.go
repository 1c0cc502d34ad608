package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"caseflow/models"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "Manage debt-advice cases",
}

var casesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPI()
		if err != nil {
			return err
		}

		cases, err := api.ListCases(cmd.Context())
		if err != nil {
			return err
		}
		if len(cases) == 0 {
			fmt.Println("No cases.")
			return nil
		}

		for _, c := range cases {
			fmt.Printf("%-12s  %-10s  %-8s  %-24s  %s\n",
				c.ID, c.Reference, c.Status, c.ClientName, formatPence(c.TotalDebt))
		}
		return nil
	},
}

var casesShowCmd = &cobra.Command{
	Use:   "show <case-id>",
	Short: "Show one case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPI()
		if err != nil {
			return err
		}

		c, err := api.GetCase(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Case:       %s (%s)\n", c.Reference, c.ID)
		fmt.Printf("Client:     %s\n", c.ClientName)
		fmt.Printf("Adviser:    %s\n", c.Adviser)
		fmt.Printf("Status:     %s\n", c.Status)
		fmt.Printf("Total debt: %s\n", formatPence(c.TotalDebt))
		fmt.Printf("Opened:     %s\n", humanize.Time(c.CreatedAt))
		return nil
	},
}

var casesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new case",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPI()
		if err != nil {
			return err
		}

		draft := models.CaseDraft{
			Reference:  mustString(cmd, "reference"),
			ClientName: mustString(cmd, "client"),
			Adviser:    mustString(cmd, "adviser"),
		}
		draft.TotalDebt, _ = cmd.Flags().GetInt64("debt")
		if draft.Reference == "" || draft.ClientName == "" {
			return fmt.Errorf("--reference and --client are required")
		}

		c, err := api.CreateCase(cmd.Context(), draft)
		if err != nil {
			return err
		}
		fmt.Printf("Created case %s (%s)\n", c.Reference, c.ID)
		return nil
	},
}

var casesCloseCmd = &cobra.Command{
	Use:   "close <case-id>",
	Short: "Close a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPI()
		if err != nil {
			return err
		}

		if err := api.CloseCase(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Closed case %s\n", args[0])
		return nil
	},
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func formatPence(p int64) string {
	return "£" + humanize.CommafWithDigits(float64(p)/100, 2)
}

func init() {
	casesCreateCmd.Flags().String("reference", "", "case reference")
	casesCreateCmd.Flags().String("client", "", "client name")
	casesCreateCmd.Flags().String("adviser", "", "assigned adviser")
	casesCreateCmd.Flags().Int64("debt", 0, "total debt in pence")

	casesCmd.AddCommand(casesListCmd, casesShowCmd, casesCreateCmd, casesCloseCmd)
	rootCmd.AddCommand(casesCmd)
}
