package cmd

import (
	"context"
	"errors"
	"fmt"

	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/ui"
	"github.com/envseal/envseal/internal/utils"
	"github.com/envseal/envseal/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	rotateOldKey   string
	rotateNewKey   string
	rotateGenerate bool
	rotateForce    bool
)

func init() {
	keyRotateCmd.Flags().StringVar(&rotateOldKey, "old", "", "the current secret key, for verification")
	keyRotateCmd.Flags().StringVar(&rotateNewKey, "new", "", "the replacement secret key")
	keyRotateCmd.Flags().BoolVar(&rotateGenerate, "generate", false, "generate a random replacement key")
	keyRotateCmd.Flags().BoolVar(&rotateForce, "force", false, "skip confirmation prompt")
}

// resetKeyRotateCommandState resets the key rotate command's global state for testing.
func resetKeyRotateCommandState() {
	rotateOldKey = ""
	rotateNewKey = ""
	rotateGenerate = false
	rotateForce = false
}

var keyRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Replace the project secret key",
	Long: `Replaces the stored secret key after verifying the current one.

Rotation only swaps the stored key. Files that are currently sealed stay
sealed under the OLD key and can no longer be encrypted consistently with the
new one; decrypt them first, or use 'envseal rekey' to rotate and re-encrypt
in one atomic step.

Examples:
  # Rotate to a specific key (with confirmation prompt)
  envseal key rotate --old current-key --new replacement-key

  # Rotate to a random key without the prompt
  envseal key rotate --old current-key --generate --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting key rotate command")
		spinner, cleanup := startSpinner("Rotating secret key...", verbose)
		defer cleanup()

		oldKey := rotateOldKey
		if oldKey == "" {
			spinner.Stop()
			fmt.Println(ui.Info.Sprint("ℹ") + " The current key is required to rotate.")
			pass, err := utils.ReadPassphrase("Current secret key: ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read current key: %v", err)
			}
			oldKey = string(pass)
			spinner.Restart()
		}

		if !rotateForce {
			if !confirmProceed(spinner,
				"This will replace the project secret key.",
				"Files sealed under the current key stay sealed under it.",
				"Use 'envseal rekey' instead to rotate and re-encrypt together.") {
				spinner.FinalMSG = ui.Warning.Sprint("⚠") + " Key rotation cancelled."
				return nil
			}
		}

		result, err := workflows.RotateKey(context.Background(), workflows.RotateKeyOptions{
			OldKey:   oldKey,
			NewKey:   rotateNewKey,
			Generate: rotateGenerate,
		})
		if err != nil {
			spinner.FinalMSG = formatKeyRotateError(err)
			if isKeyRotateUnexpectedError(err) {
				return err
			}
			return nil
		}

		finalMessage := ui.Success.Sprint("✓") + " Secret key rotated\n" +
			"  Old fingerprint: " + ui.Key.Sprint(result.OldFingerprint) + "\n" +
			"  New fingerprint: " + ui.Key.Sprint(result.NewFingerprint)

		if len(result.SealedFiles) > 0 {
			finalMessage += "\n" + ui.Warning.Sprint("⚠") + fmt.Sprintf(" %d file(s) are still sealed under the old key:", len(result.SealedFiles)) +
				utils.FormatPaths(result.SealedFiles) +
				ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envseal rekey") + " to bring them under the new key"
		}

		spinner.FinalMSG = finalMessage
		return nil
	},
}

// formatKeyRotateError formats a key rotate error for display to the user.
func formatKeyRotateError(err error) string {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized):
		return notInitializedMessage()

	case errors.Is(err, eserrors.ErrMissingSecretKey):
		return ui.Error.Sprint("✗") + " No secret key is set for this project\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envseal key generate") + " first"

	case errors.Is(err, eserrors.ErrKeyMismatch):
		return ui.Error.Sprint("✗") + " The supplied key does not match the stored key"

	case errors.Is(err, eserrors.ErrInvalidInput):
		return ui.Error.Sprint("✗") + " Provide a replacement with " + ui.Flag.Sprint("--new") + " or " + ui.Flag.Sprint("--generate")

	default:
		return ui.Error.Sprint("✗") + " Failed to rotate secret key: " + err.Error()
	}
}

// isKeyRotateUnexpectedError returns true if the error is unexpected and
// should cause a non-zero exit.
func isKeyRotateUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized),
		errors.Is(err, eserrors.ErrMissingSecretKey),
		errors.Is(err, eserrors.ErrKeyMismatch),
		errors.Is(err, eserrors.ErrInvalidInput):
		return false
	default:
		return true
	}
}
