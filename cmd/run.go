package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/envseal/envseal/internal/configs"
	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/ui"
	"github.com/envseal/envseal/internal/workflows"
	"github.com/spf13/cobra"
)

var runFile string

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "", "the env file to load (defaults to .env)")
	// Flags after the command belong to the command.
	runCmd.Flags().SetInterspersed(false)
}

// resetRunCommandState resets the run command's global state for testing.
func resetRunCommandState() {
	runFile = ""
}

var runCmd = &cobra.Command{
	Use:   "run -- <command> [args...]",
	Short: "Run a command with decrypted variables injected",
	Long: `Decrypts the sealed env file in memory and executes the command with the
variables added to its environment. Nothing is written to disk; the plaintext
exists only inside this process and the child's environment.

The child's exit code becomes envseal's exit code.

Examples:
  envseal run -- npm start
  envseal run --file .env.production -- ./server
  ENVSEAL_PASSPHRASE=pw envseal run -- make test`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting run command")

		passphrase, err := resolvePassphrase(nil, false)
		if err != nil {
			fmt.Println(formatRunError(err))
			if isRunUnexpectedError(err) {
				return err
			}
			// The command never ran; scripts must not see success.
			runExitCode = 1
			return nil
		}

		envFile := runFile
		if envFile == "" {
			envFile = configs.LoadRuntime().EnvFile
		}

		result, err := workflows.Run(context.Background(), workflows.RunOptions{
			EnvFile:    envFile,
			Passphrase: passphrase,
			Command:    args,
		})
		if err != nil {
			fmt.Println(formatRunError(err))
			if isRunUnexpectedError(err) {
				return err
			}
			runExitCode = 1
			return nil
		}

		Logger.Debugf("Command exited with code %d, %d variables injected", result.ExitCode, result.VarCount)
		runExitCode = result.ExitCode
		return nil
	},
}

// formatRunError formats a run error for display to the user.
func formatRunError(err error) string {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized):
		return notInitializedMessage()

	case errors.Is(err, eserrors.ErrMissingPassphrase):
		return ui.Error.Sprint("✗") + " A passphrase is required\n" +
			ui.Info.Sprint("→") + " Set " + ui.Code.Sprint("ENVSEAL_PASSPHRASE") + " or run from a terminal"

	case errors.Is(err, eserrors.ErrNotEncrypted):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envseal encrypt") + " first"

	case errors.Is(err, eserrors.ErrDecryptionFailed):
		return ui.Error.Sprint("✗") + " Decryption failed. Is the passphrase correct?"

	case errors.Is(err, eserrors.ErrInvalidFormat), errors.Is(err, eserrors.ErrMalformedToken):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " The sealed file is corrupted or was not produced by envseal"

	case errors.Is(err, eserrors.ErrInvalidInput):
		return ui.Error.Sprint("✗") + " " + err.Error()

	default:
		return ui.Error.Sprint("✗") + " Failed to run command: " + err.Error()
	}
}

// isRunUnexpectedError returns true if the error is unexpected and should
// cause a non-zero exit.
func isRunUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized),
		errors.Is(err, eserrors.ErrMissingPassphrase),
		errors.Is(err, eserrors.ErrNotEncrypted),
		errors.Is(err, eserrors.ErrDecryptionFailed),
		errors.Is(err, eserrors.ErrInvalidFormat),
		errors.Is(err, eserrors.ErrMalformedToken),
		errors.Is(err, eserrors.ErrInvalidInput):
		return false
	default:
		return true
	}
}
