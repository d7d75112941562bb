package cmd

import (
	"context"
	"errors"
	"strings"

	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/ui"
	"github.com/envseal/envseal/internal/utils"
	"github.com/envseal/envseal/internal/workflows"
	"github.com/spf13/cobra"
)

// resetKeySetCommandState resets the key set command's global state for testing.
func resetKeySetCommandState() {}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Set the project secret key",
	Long: `Stores the given value as the project secret key.

The key can only be set once; replacing an existing key is rotation and goes
through 'envseal key rotate' so the old key is verified first.

The key is taken from the argument, or from stdin when piped:

  envseal key set my-secret-key
  cat keyfile | envseal key set`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting key set command")
		spinner, cleanup := startSpinner("Storing secret key...", verbose)
		defer cleanup()

		key, err := keyFromArgsOrStdin(args)
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " " + err.Error()
			return nil
		}

		result, err := workflows.SetKey(context.Background(), workflows.SetKeyOptions{Key: key})
		if err != nil {
			spinner.FinalMSG = formatKeySetError(err)
			if isKeySetUnexpectedError(err) {
				return err
			}
			return nil
		}

		finalMessage := ui.Success.Sprint("✓") + " Secret key stored at " + ui.Path.Sprint(result.KeyPath) + "\n" +
			"  Fingerprint: " + ui.Key.Sprint(result.Fingerprint) + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envseal encrypt") + " to seal your env files"
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// keyFromArgsOrStdin returns the key from the positional argument, falling
// back to piped stdin.
func keyFromArgsOrStdin(args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}

	data, err := utils.ReadStdin()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// formatKeySetError formats a key set error for display to the user.
func formatKeySetError(err error) string {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized):
		return notInitializedMessage()

	case errors.Is(err, eserrors.ErrKeyAlreadySet):
		return ui.Error.Sprint("✗") + " A secret key is already set for this project\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envseal key rotate") + " to replace it"

	case errors.Is(err, eserrors.ErrInvalidInput):
		return ui.Error.Sprint("✗") + " The secret key must not be empty"

	default:
		return ui.Error.Sprint("✗") + " Failed to store secret key: " + err.Error()
	}
}

// isKeySetUnexpectedError returns true if the error is unexpected and should
// cause a non-zero exit.
func isKeySetUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized),
		errors.Is(err, eserrors.ErrKeyAlreadySet),
		errors.Is(err, eserrors.ErrInvalidInput):
		return false
	default:
		return true
	}
}
