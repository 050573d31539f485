package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortressguard/fortress/openapi"
)

func openAPICmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Export the console API description",
		Long:  "Write the OpenAPI document of the console API. Files ending in .yaml or .yml are written as YAML; '-' prints JSON to stdout.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			api := openapi.NewAPI(version)

			if output == "-" {
				spec, err := openapi.GenerateSpec(api)
				if err != nil {
					return fmt.Errorf("failed to generate OpenAPI spec: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(spec))
				return nil
			}

			if err := openapi.WriteSpec(api, output); err != nil {
				return err
			}
			log(cmd.OutOrStdout(), fmt.Sprintf("📋 Wrote OpenAPI spec with %d routes to %s", openapi.RouteCount(api), output), colorGreen)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "openapi.json", "Output file, or '-' for stdout")

	return cmd
}
