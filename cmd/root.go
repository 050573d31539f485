package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortressguard/fortress/config"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	envFiles   []string
	apiURL     string
	apiVersion string
	debug      bool
}

// NewRootCmd builds the fortress command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "fortress",
		Short:         "FortressGuard - password and encryption API console",
		Long:          `fortress talks to a FortressGuard API: generate and validate passwords, encrypt and decrypt text, and read service statistics from the command line or a web console.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "🛡️  FortressGuard CLI v"+version)
			fmt.Fprintln(cmd.OutOrStdout(), "Run 'fortress --help' for available commands")
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultConfigPath, "Path to the project configuration file")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "Additional dotenv files (repeatable, later files win)")
	flags.StringVar(&opts.apiURL, "api-url", "", "FortressGuard API base URL (overrides "+config.EnvAPIURL+")")
	flags.StringVar(&opts.apiVersion, "api-version", "", "FortressGuard API version (overrides "+config.EnvAPIVersion+")")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(serveCmd(opts, version))
	cmd.AddCommand(generateCmd(opts))
	cmd.AddCommand(validateCmd(opts))
	cmd.AddCommand(encryptCmd(opts))
	cmd.AddCommand(decryptCmd(opts))
	cmd.AddCommand(statsCmd(opts))
	cmd.AddCommand(strengthCmd())
	cmd.AddCommand(consoleCmd(opts))
	cmd.AddCommand(configCmd(opts))
	cmd.AddCommand(openAPICmd(version))
	cmd.AddCommand(stubCmd(opts))

	return cmd
}
