package cmd

import (
	"strings"

	"foamworks/pkg/api"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var completeCmd = &cobra.Command{
	Use:   "complete [job_id]",
	Short: "Submit a crew's completion report for a job",
	Long: `Submit the crew-reported actuals for a finished job. The server applies
the stock deduction, usage logging, and equipment return in one transaction.

A 409 response means the job was already completed; do not resubmit.

Example:
  foamctl complete 4f2a... --open-cell 3 --closed-cell 1.5 --hours 16 \
    --item 9c1b...=2 --equipment 7e3d... --crew "M. Reyes"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		jobID := args[0]

		flags := cmd.Flags()
		openCell, _ := flags.GetString("open-cell")
		closedCell, _ := flags.GetString("closed-cell")
		hours, _ := flags.GetString("hours")
		items, _ := flags.GetStringSlice("item")
		equipment, _ := flags.GetStringSlice("equipment")
		crew, _ := flags.GetString("crew")
		notes, _ := flags.GetString("notes")

		url := viper.GetString("url")
		token := viper.GetString("token")

		if token == "" {
			cmd.Println("API token not found. Please set it using the --token flag or the FOAMWORKS_TOKEN environment variable")
			return
		}

		if crew == "" {
			cmd.Println("Error: --crew is required")
			return
		}

		req := api.CompleteJobRequest{
			CrewMember:   crew,
			Notes:        notes,
			EquipmentIDs: equipment,
		}

		var err error
		if req.OpenCellSets, err = parseQty(openCell); err != nil {
			cmd.Printf("Error: invalid --open-cell value %q\n", openCell)
			return
		}
		if req.ClosedCellSets, err = parseQty(closedCell); err != nil {
			cmd.Printf("Error: invalid --closed-cell value %q\n", closedCell)
			return
		}
		if req.LaborHours, err = parseQty(hours); err != nil {
			cmd.Printf("Error: invalid --hours value %q\n", hours)
			return
		}

		for _, spec := range items {
			id, qtyStr, ok := strings.Cut(spec, "=")
			if !ok {
				cmd.Printf("Error: --item must be id=quantity, got %q\n", spec)
				return
			}
			qty, err := decimal.NewFromString(qtyStr)
			if err != nil {
				cmd.Printf("Error: invalid quantity in --item %q\n", spec)
				return
			}
			req.Items = append(req.Items, api.ItemUsageRequest{ItemID: id, Quantity: qty})
		}

		client := NewClient(url, token)
		result, err := client.CompleteJob(jobID, req)
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("✓ Job completed!\n")
		cmd.Printf("Open-cell:   requested %s, deducted %s\n", result.OpenCellRequested, result.OpenCellDeducted)
		cmd.Printf("Closed-cell: requested %s, deducted %s\n", result.ClosedCellRequested, result.ClosedCellDeducted)
		for _, item := range result.Items {
			cmd.Printf("Item %s: requested %s, deducted %s\n", item.ItemID, item.Requested, item.Deducted)
		}
		if result.OpenCellDeducted.LessThan(result.OpenCellRequested) ||
			result.ClosedCellDeducted.LessThan(result.ClosedCellRequested) {
			cmd.Println("Warning: reported usage exceeded recorded stock; pool clamped at zero. Check the usage log against deliveries.")
		}
	},
}

func parseQty(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func init() {
	flags := completeCmd.Flags()
	flags.String("open-cell", "", "Open-cell sets consumed")
	flags.String("closed-cell", "", "Closed-cell sets consumed")
	flags.String("hours", "", "Labor hours")
	flags.StringSlice("item", []string{}, "Inventory item usage as id=quantity (repeatable)")
	flags.StringSlice("equipment", []string{}, "Equipment ID used on the job (repeatable)")
	flags.StringP("crew", "c", "", "Name of the submitting crew member (required)")
	flags.String("notes", "", "Free-form crew notes")

	rootCmd.AddCommand(completeCmd)
}
