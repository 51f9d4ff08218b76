package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jefftune/tune-reporting-go/endpoint"
)

// sessionCmd represents the session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Exchange the configured API key for a session token",
	Long: `Exchange the configured API key for a short-lived session token.
The token can then be used as the auth credential for subsequent requests.`,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	session := endpoint.NewSessionAuthenticate(client, logger)

	call, err := session.SessionToken(ctx, cfg.Auth.Key, nil)
	if err != nil {
		return err
	}
	resp, err := call.Wait(ctx)
	if err != nil {
		return err
	}

	token, err := endpoint.Token(resp)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
