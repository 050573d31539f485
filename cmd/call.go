package cmd

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/fortressguard/fortress/console"
	"github.com/fortressguard/fortress/strength"
)

func generateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a password",
		Long:  "Ask the FortressGuard API for a new password. Without flags the API picks length and character set.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var popts []console.PasswordOption
			if cmd.Flags().Changed("length") {
				length, _ := cmd.Flags().GetInt("length")
				popts = append(popts, console.WithLength(length))
			}
			if cmd.Flags().Changed("special") {
				special, _ := cmd.Flags().GetBool("special")
				popts = append(popts, console.WithSpecial(special))
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			state := a.console().GeneratePassword(cmd.Context(), popts...)
			return printState(cmd.OutOrStdout(), console.LanePassword, state, asJSON, renderPassword)
		},
	}

	cmd.Flags().Int("length", 0, "Password length")
	cmd.Flags().Bool("special", true, "Include special characters")
	cmd.Flags().Bool("json", false, "Print the raw request state as JSON")

	return cmd
}

func validateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [password]",
		Short: "Validate a password",
		Long:  "Score a password with the FortressGuard API. Prompts for the password when it is not given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := argOrPassword(args, "Password to validate:")
			if err != nil {
				return err
			}

			a, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			state := a.console().ValidatePassword(cmd.Context(), password)
			return printState(cmd.OutOrStdout(), console.LaneValidation, state, asJSON, renderValidation)
		},
	}

	cmd.Flags().Bool("json", false, "Print the raw request state as JSON")

	return cmd
}

func encryptCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt <text>",
		Short: "Encrypt text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			state := a.console().EncryptText(cmd.Context(), args[0])
			return printState(cmd.OutOrStdout(), console.LaneEncryption, state, asJSON, renderEncryption)
		},
	}

	cmd.Flags().Bool("json", false, "Print the raw request state as JSON")

	return cmd
}

func decryptCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrypt <encrypted-text>",
		Short: "Decrypt text produced by encrypt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			state := a.console().DecryptText(cmd.Context(), args[0])
			return printState(cmd.OutOrStdout(), console.LaneDecryption, state, asJSON, renderDecryption)
		},
	}

	cmd.Flags().Bool("json", false, "Print the raw request state as JSON")

	return cmd
}

func statsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show FortressGuard service statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			state := a.console().GetStatistics(cmd.Context())
			return printState(cmd.OutOrStdout(), console.LaneStatistics, state, asJSON, renderStatistics)
		},
	}

	cmd.Flags().Bool("json", false, "Print the raw request state as JSON")

	return cmd
}

func strengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strength [password]",
		Short: "Score a password locally",
		Long:  "Rate a password against the strength criteria without contacting the API.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := argOrPassword(args, "Password to score:")
			if err != nil {
				return err
			}
			renderStrength(cmd.OutOrStdout(), strength.Evaluate(password))
			return nil
		},
	}
}

func argOrPassword(args []string, message string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	var password string
	if err := survey.AskOne(&survey.Password{Message: message}, &password); err != nil {
		return "", err
	}
	return password, nil
}
