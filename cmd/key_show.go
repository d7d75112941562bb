package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/ui"
	"github.com/envseal/envseal/internal/utils"
	"github.com/envseal/envseal/internal/workflows"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var keyShowReveal bool

func init() {
	keyShowCmd.Flags().BoolVar(&keyShowReveal, "reveal", false, "display the key itself, not just the fingerprint")
}

// resetKeyShowCommandState resets the key show command's global state for testing.
func resetKeyShowCommandState() {
	keyShowReveal = false
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored secret key's fingerprint",
	Long: `Shows whether a secret key is set and its fingerprint.

With --reveal the key itself is displayed on the terminal and cleared from
the screen after you press Enter, so it never lands in scrollback or logs.
When output is piped, --reveal writes the raw key to stdout instead:

  envseal key show
  envseal key show --reveal
  envseal key show --reveal | pbcopy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting key show command")
		spinner, cleanup := startSpinner("Loading secret key...", verbose)
		defer cleanup()

		result, err := workflows.ShowKey(context.Background(), workflows.ShowKeyOptions{
			Reveal: keyShowReveal,
		})
		if err != nil {
			spinner.FinalMSG = formatKeyShowError(err)
			if isKeyShowUnexpectedError(err) {
				return err
			}
			return nil
		}

		if !keyShowReveal {
			spinner.FinalMSG = ui.Success.Sprint("✓") + " A secret key is set\n" +
				"  Fingerprint: " + ui.Key.Sprint(result.Fingerprint) + "\n" +
				"  Stored at:   " + ui.Path.Sprint(result.KeyPath)
			return nil
		}

		// Piped output gets the raw key for scripting.
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			spinner.FinalMSG = ""
			spinner.Stop()
			fmt.Println(result.Key)
			return nil
		}

		spinner.Stop()
		if err := revealKeyOnTTY(result.Key, result.Fingerprint); err != nil {
			return Logger.ErrorfAndReturn("failed to display key: %v", err)
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Key displayed and cleared from screen"
		return nil
	},
}

// revealKeyOnTTY writes the key directly to the terminal, waits for Enter,
// and clears the screen so the key does not linger in scrollback.
func revealKeyOnTTY(key, fingerprint string) error {
	content := "\n" +
		"  Secret key:  " + key + "\n" +
		"  Fingerprint: " + fingerprint + "\n\n" +
		"Press Enter to clear the screen...\n"

	if err := utils.WriteToTTY(content); err != nil {
		return err
	}
	if err := utils.WaitForEnterFromTTY(); err != nil {
		return err
	}
	return utils.ClearScreen()
}

// formatKeyShowError formats a key show error for display to the user.
func formatKeyShowError(err error) string {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized):
		return notInitializedMessage()

	case errors.Is(err, eserrors.ErrMissingSecretKey):
		return ui.Error.Sprint("✗") + " No secret key is set for this project\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envseal key generate") + " or " + ui.Code.Sprint("envseal key set")

	default:
		return ui.Error.Sprint("✗") + " Failed to load secret key: " + err.Error()
	}
}

// isKeyShowUnexpectedError returns true if the error is unexpected and should
// cause a non-zero exit.
func isKeyShowUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized),
		errors.Is(err, eserrors.ErrMissingSecretKey):
		return false
	default:
		return true
	}
}
