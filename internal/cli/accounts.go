package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nmcnair22/billscan/internal/billtype"
)

var multiLocation bool

// accountsCmd represents the accounts command
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage the account registry used for bill routing",
	Long: `The account registry maps account numbers to their bill type. Bills
whose account is not registered are routed to audit instead of being
processed.`,
}

var accountsAddCmd = &cobra.Command{
	Use:   "add <account-number>",
	Short: "Register an account number",
	Long: `Register an account number so its bills are routed to the extraction
pipeline. Pass --multi for accounts whose bills carry per-location
sub-accounts.

Example:
  billscan accounts add 987654321 --multi
  billscan accounts add 12-3456-78`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		registry, err := billtype.Open(cfg.Registry.Path, newLogger())
		if err != nil {
			return err
		}
		defer registry.Close()

		number := billtype.CleanAccountNumber(args[0])
		if number == "" {
			return fmt.Errorf("account number %q has no usable characters", args[0])
		}
		if err := registry.Add(context.Background(), number, multiLocation); err != nil {
			return err
		}

		kind := "single-location"
		if multiLocation {
			kind = "multi-location"
		}
		fmt.Printf("✓ Registered %s as %s\n", number, kind)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsAddCmd)

	accountsAddCmd.Flags().BoolVar(&multiLocation, "multi", false, "account bills carry per-location sub-accounts")
}
