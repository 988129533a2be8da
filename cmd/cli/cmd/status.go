package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusCmd = &cobra.Command{
	Use:   "status [job_id]",
	Short: "Get status of a job",
	Long:  `Retrieve a job's billing status, execution status, planned quantities, and completion state.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		jobID := args[0]

		url := viper.GetString("url")
		token := viper.GetString("token")

		if token == "" {
			cmd.Println("API token not found. Please set it using the --token flag or the FOAMWORKS_TOKEN environment variable")
			return
		}

		client := NewClient(url, token)
		job, err := client.GetJob(jobID)
		if err != nil {
			printClientError(cmd, err)
			return
		}

		cmd.Printf("Job:        %s\n", job.ID)
		cmd.Printf("Customer:   %s\n", job.CustomerName)
		if job.SiteAddress != "" {
			cmd.Printf("Site:       %s\n", job.SiteAddress)
		}
		cmd.Printf("Status:     %s / %s\n", job.Status, job.ExecutionStatus)
		cmd.Printf("Planned:    %s open-cell, %s closed-cell, %s hours\n",
			job.PlannedOpenCellSets, job.PlannedClosedCellSets, job.PlannedLaborHours)
		if job.CompletionProcessed && job.CompletedAt != nil {
			cmd.Printf("Completed:  %s\n", job.CompletedAt.Local().Format("2006-01-02 15:04:05"))
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
