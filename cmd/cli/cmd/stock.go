package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Show the tenant's chemical stock pool",
	Long:  `Show current open-cell and closed-cell set quantities and the lifetime usage counters.`,
	Run: func(cmd *cobra.Command, args []string) {
		url := viper.GetString("url")
		token := viper.GetString("token")

		if token == "" {
			cmd.Println("API token not found. Please set it using the --token flag or the FOAMWORKS_TOKEN environment variable")
			return
		}

		client := NewClient(url, token)
		stock, err := client.GetStock()
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("Open-cell sets:    %s (lifetime used %s)\n", stock.OpenCellQty, stock.OpenCellUsed)
		cmd.Printf("Closed-cell sets:  %s (lifetime used %s)\n", stock.ClosedCellQty, stock.ClosedCellUsed)
		cmd.Printf("Last updated:      %s\n", stock.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	},
}

func printClientError(cmd *cobra.Command, err error) {
	if apiErr, ok := err.(*APIError); ok {
		cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
	} else {
		cmd.Printf("Error: %v\n", err)
	}
}

func init() {
	rootCmd.AddCommand(stockCmd)
}
