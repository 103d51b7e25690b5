package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/your-org/promptpipe/internal/app"
	"github.com/your-org/promptpipe/internal/version"
)

var (
	manifestPath string
	modelID      string
)

var rootCmd = &cobra.Command{
	Use:   "promptpipe",
	Short: "Run queries through a configured generation pipeline",
}

var runCmd = &cobra.Command{
	Use:   "run [query]",
	Short: "Handle one query and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v := os.Getenv("PROMPTPIPE_MANIFEST"); v != "" && !cmd.Flags().Changed("manifest") {
			manifestPath = v
		}
		return app.Run(manifestPath, args[0], modelID, cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(version.String())
	},
}

func init() {
	runCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "configs/pipeline.example.yaml", "path to the pipeline manifest")
	runCmd.Flags().StringVar(&modelID, "model", "", "registered model id to invoke")
	_ = runCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
