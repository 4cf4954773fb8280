// Package cli implements the pricing-quote command line.
package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pricing-quote",
		Short:         "Price shopping carts at checkout",
		Long:          "pricing-quote computes item cost, shipping and customer discount for a cart document.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newQuoteCmd())
	cmd.AddCommand(newValidateAddressCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write([]byte("pricing-quote " + version + " (" + commit + ")\n"))
			return err
		},
	}
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
