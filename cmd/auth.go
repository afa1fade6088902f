package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/bookable/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth [auth-code]",
		Short: "Authorize access to a Google account",
		Long: `Authorize bookable to read free/busy data and create events on a Google
Calendar.

Run without arguments to print the authorization URL. Open it in a
browser, grant access, and run the command again with the code Google
displays to store the token.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if google.HasTokenForAccount(account) {
					fmt.Printf("Account %q is already authorized. Re-authorize by completing the flow below.\n\n", account)
				}
				fmt.Printf("Open the following URL in a browser, then re-run with the auth code:\n\n%s\n", google.GetAuthURLForAccount(account))
				return nil
			}

			if err := google.SaveTokenForAccount(context.Background(), account, args[0]); err != nil {
				return fmt.Errorf("failed to save token for account %s: %w", account, err)
			}
			fmt.Printf("Token stored for account %q.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	return cmd
}
