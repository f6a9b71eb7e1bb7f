package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/mask"
)

var cepFlags struct {
	company bool
}

var cepCmd = &cobra.Command{
	Use:   "cep <zip-code>",
	Short: "Look up an address by postal code",
	Args:  cobra.ExactArgs(1),
	RunE:  runCEP,
}

func init() {
	cepCmd.Flags().BoolVar(&cepFlags.company, "company", false, "Use the company address service")
}

func runCEP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	zip := mask.Digits(args[0])
	if len(zip) != 8 {
		return fmt.Errorf("invalid zip code %q: expected 8 digits", args[0])
	}

	gw := gatewayFromConfig(cfg)
	lookup := gw.LookupAddress
	if cepFlags.company {
		lookup = gw.LookupCompanyAddress
	}

	addr, err := lookup(cmd.Context(), zip)
	if errors.Is(err, api.ErrNotFound) {
		return fmt.Errorf("CEP %s not found", mask.Apply(mask.CEP, zip))
	}
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	fmt.Print(formatAddress(zip, addr))
	return nil
}

// formatAddress renders an address lookup result.
func formatAddress(zip string, addr *api.Address) string {
	return fmt.Sprintf("CEP:      %s\nEndereço: %s\nBairro:   %s\nCidade:   %s - %s\n",
		mask.Apply(mask.CEP, zip), addr.Street, addr.Neighborhood, addr.City, addr.State)
}
