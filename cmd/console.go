package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fortressguard/fortress/console"
)

const (
	actionGenerate = "Generate password"
	actionValidate = "Validate password"
	actionEncrypt  = "Encrypt text"
	actionDecrypt  = "Decrypt text"
	actionStats    = "Show statistics"
	actionState    = "Show lane state"
	actionQuit     = "Quit"
)

func consoleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive test terminal",
		Long:  "Run every FortressGuard operation interactively. Lane state is kept for the whole session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("console needs an interactive terminal; use the one-shot commands instead")
			}

			a, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			c := a.console(console.WithObserver(func(lane console.LaneName, phase console.Phase) {
				if phase == console.PhaseLoading {
					log(out, fmt.Sprintf("⏳ %s...", lane), colorCyan)
				}
			}))

			log(out, "🛡️  FortressGuard test terminal - "+a.apiCfg.BuildAPIURL(""), colorGreen)
			err = runConsole(cmd.Context(), out, c)
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			return err
		},
	}
}

func runConsole(ctx context.Context, out io.Writer, c *console.Console) error {
	generate := true
	if err := survey.AskOne(&survey.Confirm{Message: "Generate a password to start?", Default: true}, &generate); err != nil {
		return err
	}
	if generate {
		printState(out, console.LanePassword, c.GeneratePassword(ctx), false, renderPassword)
	}

	for {
		var action string
		prompt := &survey.Select{
			Message: "Choose an operation:",
			Options: []string{actionGenerate, actionValidate, actionEncrypt, actionDecrypt, actionStats, actionState, actionQuit},
			Default: actionGenerate,
		}
		if err := survey.AskOne(prompt, &action); err != nil {
			return err
		}

		switch action {
		case actionGenerate:
			popts, err := askPasswordOptions()
			if err != nil {
				return err
			}
			printState(out, console.LanePassword, c.GeneratePassword(ctx, popts...), false, renderPassword)

		case actionValidate:
			var password string
			if err := survey.AskOne(&survey.Password{Message: "Password:"}, &password); err != nil {
				return err
			}
			printState(out, console.LaneValidation, c.ValidatePassword(ctx, password), false, renderValidation)

		case actionEncrypt:
			var text string
			if err := survey.AskOne(&survey.Input{Message: "Text:"}, &text, survey.WithValidator(survey.Required)); err != nil {
				return err
			}
			printState(out, console.LaneEncryption, c.EncryptText(ctx, text), false, renderEncryption)

		case actionDecrypt:
			// Offer the last encrypted text so a round trip needs no copy and paste.
			var last string
			if enc := c.EncryptionState(); enc.Data != nil {
				last = enc.Data.EncryptedText
			}
			var text string
			if err := survey.AskOne(&survey.Input{Message: "Encrypted text:", Default: last}, &text, survey.WithValidator(survey.Required)); err != nil {
				return err
			}
			printState(out, console.LaneDecryption, c.DecryptText(ctx, text), false, renderDecryption)

		case actionStats:
			printState(out, console.LaneStatistics, c.GetStatistics(ctx), false, renderStatistics)

		case actionState:
			data, err := json.MarshalIndent(c.Snapshot(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))

		case actionQuit:
			log(out, "👋 Bye", colorCyan)
			return nil
		}
	}
}

func askPasswordOptions() ([]console.PasswordOption, error) {
	answers := struct {
		Length  string
		Special bool
	}{}
	questions := []*survey.Question{
		{
			Name:   "length",
			Prompt: &survey.Input{Message: "Length (empty for API default):"},
			Validate: func(ans interface{}) error {
				s, _ := ans.(string)
				if s == "" {
					return nil
				}
				if _, err := strconv.Atoi(s); err != nil {
					return errors.New("length must be a number")
				}
				return nil
			},
		},
		{
			Name:   "special",
			Prompt: &survey.Confirm{Message: "Include special characters?", Default: true},
		},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		return nil, err
	}

	opts := []console.PasswordOption{console.WithSpecial(answers.Special)}
	if answers.Length != "" {
		n, _ := strconv.Atoi(answers.Length)
		opts = append(opts, console.WithLength(n))
	}
	return opts, nil
}
