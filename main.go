package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lmoreno/pbigen/cmd"
	"github.com/lmoreno/pbigen/internal/version"
)

var appVersion = "0.3.0"

func main() {
	// .env is optional; deployments set real environment variables
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "pbigen",
		Short:   "Generate Azure DevOps backlog items from a short functional description",
		Version: appVersion,
	}

	rootCmd.AddCommand(cmd.GenerateCmd)
	rootCmd.AddCommand(cmd.PushCmd)
	rootCmd.AddCommand(cmd.ServeCmd)
	rootCmd.AddCommand(cmd.SetupCmd)

	if version.IsFirstRun() {
		version.PrintFirstRunNotice()
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	version.PrintUpdateNotice(version.CheckForUpdate(appVersion))
}
