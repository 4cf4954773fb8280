package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/checkout-pricing/internal/address"
	"github.com/noah-isme/checkout-pricing/internal/pricing"
)

// ErrInvalidAddress is returned by validate-address when fields are missing.
var ErrInvalidAddress = errors.New("address is invalid")

func newValidateAddressCmd() *cobra.Command {
	var (
		addr   pricing.Address
		output string
	)

	cmd := &cobra.Command{
		Use:   "validate-address",
		Short: "Check that an address can be priced",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			missing := address.NewValidator().Missing(&addr)

			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				if err := enc.Encode(map[string]any{"valid": len(missing) == 0, "missing": missing}); err != nil {
					return err
				}
			case "text":
				if _, err := fmt.Fprint(cmd.OutOrStdout(), RenderAddressVerdict(missing)); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported output %q", output)
			}

			if len(missing) > 0 {
				return fmt.Errorf("%w: missing %v", ErrInvalidAddress, missing)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr.Street, "street", "", "Street line")
	cmd.Flags().StringVar(&addr.City, "city", "", "City")
	cmd.Flags().StringVar(&addr.Country, "country", "", "Country")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: json or text")

	return cmd
}
