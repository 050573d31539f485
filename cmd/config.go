package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fortressguard/fortress/config"
)

func configCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage project configuration",
		Long:  "Validate, view, and create the fortress.yaml configuration file",
	}

	cmd.AddCommand(configValidateCmd(opts))
	cmd.AddCommand(configShowCmd(opts))
	cmd.AddCommand(configInitCmd(opts))

	return cmd
}

func configValidateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate configuration file",
		Long:  "Validate the syntax and structure of a fortress.yaml configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			configPath := opts.pathFrom(args)
			strict, _ := cmd.Flags().GetBool("strict")

			fmt.Fprintf(out, "🔍 Validating configuration file: %s\n", configPath)

			if err := config.ValidateConfigFile(configPath); err != nil {
				fmt.Fprintf(out, "❌ Configuration validation failed:\n%v\n", err)
				return err
			}

			fmt.Fprintf(out, "✅ Configuration is valid!\n")

			info, err := config.GetConfigInfo(configPath)
			if err == nil {
				fmt.Fprintf(out, "\n%s\n", info.String())
			}

			if strict {
				cfg, err := config.LoadConfigQuiet(configPath)
				if err != nil {
					return err
				}
				issues := checkConfigIssues(cfg)
				if len(issues) > 0 {
					fmt.Fprintf(out, "\n⚠️  Potential issues found:\n")
					for i, issue := range issues {
						fmt.Fprintf(out, "  %d. %s\n", i+1, issue)
					}
					return fmt.Errorf("strict validation failed due to %d issue(s)", len(issues))
				}
			}

			return nil
		},
	}

	cmd.Flags().Bool("strict", false, "Enable strict validation (fail on warnings)")

	return cmd
}

func configShowCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [config-file]",
		Short: "Show configuration information",
		Long:  "Display the effective configuration, including the resolved FortressGuard API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			opts.configPath = opts.pathFrom(args)
			verbose, _ := cmd.Flags().GetBool("verbose")

			info, err := config.GetConfigInfo(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			fmt.Fprintf(out, "%s\n", info.String())

			a, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "   Resolved API: %s\n", a.apiCfg.BuildAPIURL(""))

			if verbose {
				fmt.Fprintf(out, "\n📝 Detailed Configuration:\n")

				data, err := yaml.Marshal(a.project)
				if err != nil {
					return fmt.Errorf("failed to marshal configuration: %w", err)
				}
				fmt.Fprintf(out, "```yaml\n%s```\n", string(data))
			}

			return nil
		},
	}

	cmd.Flags().Bool("verbose", false, "Show detailed configuration breakdown")

	return cmd
}

func configInitCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long:  "Create a new fortress.yaml configuration file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			name, _ := cmd.Flags().GetString("name")
			router, _ := cmd.Flags().GetString("router")
			apiURL, _ := cmd.Flags().GetString("api-base-url")

			if !contains(config.ValidRouters, router) {
				return errUnsupportedRouter(router)
			}

			cfg := config.DefaultProjectConfig()
			if name != "" {
				cfg.Name = name
			}
			cfg.Router = router
			cfg.API.BaseURL = apiURL
			cfg.EnvFiles = defaultEnvFiles

			if err := config.WriteConfig(opts.configPath, cfg, force); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ Created configuration file: %s\n", opts.configPath)
			fmt.Fprintf(out, "   Project: %s\n", cfg.Name)
			fmt.Fprintf(out, "   Router: %s\n", cfg.Router)
			if apiURL != "" {
				fmt.Fprintf(out, "   API: %s\n", apiURL)
			}

			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite existing configuration file")
	cmd.Flags().String("name", "", "Project name")
	cmd.Flags().String("router", "chi", "Console router: "+strings.Join(config.ValidRouters, ", "))
	cmd.Flags().String("api-base-url", "", "FortressGuard API base URL to store in the file")

	return cmd
}

func (o *rootOptions) pathFrom(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return o.configPath
}

func checkConfigIssues(cfg *config.ProjectConfig) []string {
	var issues []string

	if cfg.API.BaseURL == "" {
		issues = append(issues, "api.base_url is not set - the API address depends on "+config.EnvAPIURL+" or falls back to "+config.DefaultAPIURL)
	} else if u, err := url.Parse(cfg.API.BaseURL); err == nil && u.Scheme == "http" && !isLocalHost(u.Hostname()) {
		issues = append(issues, "api.base_url uses plain http for a remote host - passwords would travel unencrypted")
	}

	if cfg.API.TimeoutMS > 0 && cfg.API.TimeoutMS < 1000 {
		issues = append(issues, fmt.Sprintf("api.timeout_ms is %dms - slow responses will be reported as timeouts", cfg.API.TimeoutMS))
	}

	if cfg.Host == "0.0.0.0" && cfg.Console.DocsEnabled() {
		issues = append(issues, "Console listens on all interfaces with API docs enabled")
	}

	return issues
}

func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

func errUnsupportedRouter(router string) error {
	return fmt.Errorf("unsupported router: %s (valid: %s)", router, strings.Join(config.ValidRouters, ", "))
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
