package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jefftune/tune-reporting-go/endpoint"
)

var allFields bool

// fieldsCmd represents the fields command
var fieldsCmd = &cobra.Command{
	Use:   "fields <log-type>",
	Short: "Show the fields available on a log endpoint",
	Long: `Show the recommended field projection for a log endpoint, or with
--all query the endpoint's define action for every available field.`,
	Args: cobra.ExactArgs(1),
	RunE: runFields,
}

func init() {
	rootCmd.AddCommand(fieldsCmd)

	fieldsCmd.Flags().BoolVar(&allFields, "all", false, "query the service for all available fields")
}

func runFields(cmd *cobra.Command, args []string) error {
	construct, ok := logEndpoints[args[0]]
	if !ok {
		return fmt.Errorf("unknown log type %q", args[0])
	}
	ep := construct(client, auth(), logger)

	if !allFields {
		for _, field := range ep.Fields(endpoint.FieldsRecommended) {
			fmt.Println(field)
		}
		return nil
	}

	ctx := context.Background()
	call, err := ep.Define(ctx, nil)
	if err != nil {
		return err
	}
	resp, err := call.Wait(ctx)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(resp.Data(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode field metadata: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
