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

var decryptDryRun bool

func init() {
	decryptCmd.Flags().BoolVar(&decryptDryRun, "dry-run", false, "show which files would be decrypted without changing anything")
}

// resetDecryptCommandState resets the decrypt command's global state for testing.
func resetDecryptCommandState() {
	decryptDryRun = false
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [patterns...]",
	Short: "Restore sealed env files to plaintext",
	Long: `Decrypts .sealed files back into their plaintext form and removes the
sealed copies.

With no arguments all .sealed files in the project are restored. Patterns may
be files, directories, or globs:

  envseal decrypt
  envseal decrypt .env.production.sealed
  envseal decrypt --dry-run

The passphrase comes from ENVSEAL_PASSPHRASE or a hidden prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")
		spinner, cleanup := startSpinner("Decrypting environment files...", verbose)
		defer cleanup()

		passphrase := ""
		if !decryptDryRun {
			var err error
			passphrase, err = resolvePassphrase(spinner, false)
			if err != nil {
				spinner.FinalMSG = formatDecryptError(err)
				if isDecryptUnexpectedError(err) {
					return err
				}
				return nil
			}
		}

		result, err := workflows.Decrypt(context.Background(), workflows.DecryptOptions{
			FilePatterns: args,
			Passphrase:   passphrase,
			DryRun:       decryptDryRun,
		})
		if err != nil {
			spinner.FinalMSG = formatDecryptError(err)
			if isDecryptUnexpectedError(err) {
				return err
			}
			return nil
		}

		if result.DryRun {
			finalMessage := ui.Warning.Sprint("[dry-run]") + fmt.Sprintf(" %d file(s) would be decrypted:", len(result.SourceFiles)) +
				utils.FormatPaths(result.SourceFiles) +
				ui.Info.Sprint("→") + " Run without " + ui.Flag.Sprint("--dry-run") + " to restore them"
			spinner.FinalMSG = finalMessage
			return nil
		}

		Logger.Infof("Decrypt command completed successfully. Restored %d files", len(result.RestoredFiles))

		finalMessage := ui.Success.Sprint("✓") + " Environment files decrypted successfully!\n" +
			"The following files were restored:" + utils.FormatPaths(result.RestoredFiles) +
			ui.Info.Sprint("→") + " Your environment files are now ready to use"
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// formatDecryptError formats a decrypt error for display to the user.
func formatDecryptError(err error) string {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized):
		return notInitializedMessage()

	case errors.Is(err, eserrors.ErrMissingPassphrase):
		return ui.Error.Sprint("✗") + " A passphrase is required\n" +
			ui.Info.Sprint("→") + " Set " + ui.Code.Sprint("ENVSEAL_PASSPHRASE") + " or run from a terminal"

	case errors.Is(err, eserrors.ErrNotEncrypted):
		return ui.Error.Sprint("✗") + " No sealed environment files found to decrypt"

	case errors.Is(err, eserrors.ErrDecryptionFailed):
		return ui.Error.Sprint("✗") + " Decryption failed. Is the passphrase correct?"

	case errors.Is(err, eserrors.ErrInvalidFormat), errors.Is(err, eserrors.ErrMalformedToken):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " The sealed file is corrupted or was not produced by envseal"

	case errors.Is(err, eserrors.ErrFileEmpty):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, eserrors.ErrFileNotFound):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, eserrors.ErrInvalidInput):
		return ui.Error.Sprint("✗") + " " + err.Error()

	default:
		return ui.Error.Sprint("✗") + " Failed to decrypt environment files: " + err.Error()
	}
}

// isDecryptUnexpectedError returns true if the error is unexpected and should
// cause a non-zero exit.
func isDecryptUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized),
		errors.Is(err, eserrors.ErrMissingPassphrase),
		errors.Is(err, eserrors.ErrNotEncrypted),
		errors.Is(err, eserrors.ErrDecryptionFailed),
		errors.Is(err, eserrors.ErrInvalidFormat),
		errors.Is(err, eserrors.ErrMalformedToken),
		errors.Is(err, eserrors.ErrFileEmpty),
		errors.Is(err, eserrors.ErrFileNotFound),
		errors.Is(err, eserrors.ErrInvalidInput):
		return false
	default:
		return true
	}
}
