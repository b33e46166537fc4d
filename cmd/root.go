package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ltjmm",
	Short: "Latent Time Joint Mixed Effect Models",
	Long: `ltjmm prepares longitudinal multi-outcome data for a latent time
joint mixed effect model and delegates sampling to an external engine.
Among other features:

  - A four-part model formula: response ~ time | fixed | subject | outcome
  - A forward simulator with bit-reproducible seeded output
  - Four precompiled model variants (latent time x random effects)
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging (default is much more parsimonious)")

	cobra.OnInitialize(func() {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(fitCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
