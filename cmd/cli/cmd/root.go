package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "foamctl",
	Short: "Foamctl is a command line tool for the foamworks backend",
	Long: `foamctl is the command-line interface for the foamworks insulation
contractor backend.

Foamworks tracks estimates, chemical stock, inventory, equipment, and crew
job completions for a multi-tenant contractor operation.

Common workflows:

  Check the chemical pool:
    foamctl stock

  Check a job:
    foamctl status <job-id>

  Submit a crew's completion report:
    foamctl complete <job-id> --open-cell 3 --closed-cell 1.5 --hours 16 --crew "M. Reyes"

  Record a chemical delivery:
    foamctl restock --open-cell 10 --closed-cell 5

Configuration:
  Set the API endpoint and credentials via environment variables or a config file:
    FOAMWORKS_URL      API endpoint (default: http://localhost:7171)
    FOAMWORKS_TOKEN    Tenant API token for authentication`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".foamctl"
		viper.AddConfigPath(home)
		viper.SetConfigName(".foamctl")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "FOAMWORKS_VARNAME"
	viper.SetEnvPrefix("FOAMWORKS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.foamctl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:7171", "Foamworks server URL")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))

	rootCmd.PersistentFlags().StringP("token", "t", "", "API token for authentication")
	viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
}
