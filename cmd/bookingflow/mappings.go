package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func mappingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "Inspect the lookup tables used by validation",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "vehicle <name>",
		Short: "Resolve a vehicle mention to its canonical fleet name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := initMappings()
			raw := strings.Join(args, " ")
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", raw, provider.Vehicle(raw))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "city <name>",
		Short: "Resolve a city mention to its canonical spelling",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := initMappings()
			raw := strings.Join(args, " ")
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (dispatch: %s)\n",
				raw, provider.City(raw), provider.DispatchCenter(raw))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "org <text>",
		Short: "Find the corporate account a request text refers to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := initMappings()
			raw := strings.Join(args, " ")
			org, ok := provider.Organization(raw)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> no known organization\n", raw)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", raw, org.Name, org.BillingCategory)
			return nil
		},
	})

	return cmd
}
