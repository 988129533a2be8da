package cmd

import (
	"foamworks/pkg/api"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var restockCmd = &cobra.Command{
	Use:   "restock",
	Short: "Record a chemical delivery",
	Long: `Add delivered open-cell and closed-cell sets to the tenant's stock pool.

Example:
  foamctl restock --open-cell 10 --closed-cell 5`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		openCell, _ := flags.GetString("open-cell")
		closedCell, _ := flags.GetString("closed-cell")

		url := viper.GetString("url")
		token := viper.GetString("token")

		if token == "" {
			cmd.Println("API token not found. Please set it using the --token flag or the FOAMWORKS_TOKEN environment variable")
			return
		}

		var req api.RestockRequest
		var err error
		if req.OpenCellSets, err = parseQty(openCell); err != nil {
			cmd.Printf("Error: invalid --open-cell value %q\n", openCell)
			return
		}
		if req.ClosedCellSets, err = parseQty(closedCell); err != nil {
			cmd.Printf("Error: invalid --closed-cell value %q\n", closedCell)
			return
		}

		if req.OpenCellSets.IsZero() && req.ClosedCellSets.IsZero() {
			cmd.Println("Error: provide --open-cell and/or --closed-cell")
			return
		}

		client := NewClient(url, token)
		stock, err := client.Restock(req)
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("✓ Stock updated!\n")
		cmd.Printf("Open-cell sets:   %s\n", stock.OpenCellQty)
		cmd.Printf("Closed-cell sets: %s\n", stock.ClosedCellQty)
	},
}

func init() {
	flags := restockCmd.Flags()
	flags.String("open-cell", "", "Open-cell sets delivered")
	flags.String("closed-cell", "", "Closed-cell sets delivered")

	rootCmd.AddCommand(restockCmd)
}
