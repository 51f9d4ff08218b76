package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jefftune/tune-reporting-go/update"
)

var checkUpdate bool

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// version needs no configuration
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&checkUpdate, "check-update", false, "check for a newer release on GitHub")
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Printf("tune-reporting %s (built %s)\n", appVersion, appBuildTime)

	if !checkUpdate {
		return nil
	}

	result := update.CheckForUpdate(context.Background(), appVersion)
	if result == nil {
		fmt.Println("Update check unavailable.")
		return nil
	}
	if result.UpdateAvailable {
		fmt.Printf("A newer release is available: %s\n%s\n", result.LatestVersion, result.UpdateURL)
	} else {
		fmt.Println("You are on the latest release.")
	}
	return nil
}
