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

var encryptDryRun bool

func init() {
	encryptCmd.Flags().BoolVar(&encryptDryRun, "dry-run", false, "show which files would be encrypted without changing anything")
}

// resetEncryptCommandState resets the encrypt command's global state for testing.
func resetEncryptCommandState() {
	encryptDryRun = false
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [patterns...]",
	Short: "Seal env files under the project secret key",
	Long: `Encrypts env files into .sealed siblings and removes the plaintext.

Every value line is encrypted individually; blank lines and comments pass
through, so sealed files still diff meaningfully in version control. The
sealed header carries the secret key wrapped under your passphrase, which
means a fresh clone needs nothing but the passphrase.

With no arguments all .env files in the project are sealed. Patterns may be
files, directories, or globs:

  envseal encrypt
  envseal encrypt .env.production
  envseal encrypt 'services/**/.env'
  envseal encrypt --dry-run

The passphrase comes from ENVSEAL_PASSPHRASE or a hidden prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")
		spinner, cleanup := startSpinner("Encrypting environment files...", verbose)
		defer cleanup()

		passphrase := ""
		if !encryptDryRun {
			var err error
			passphrase, err = resolvePassphrase(spinner, true)
			if err != nil {
				spinner.FinalMSG = formatEncryptError(err)
				if isEncryptUnexpectedError(err) {
					return err
				}
				return nil
			}
		}

		result, err := workflows.Encrypt(context.Background(), workflows.EncryptOptions{
			FilePatterns: args,
			Passphrase:   passphrase,
			DryRun:       encryptDryRun,
		})
		if err != nil {
			spinner.FinalMSG = formatEncryptError(err)
			if isEncryptUnexpectedError(err) {
				return err
			}
			return nil
		}

		if result.DryRun {
			finalMessage := ui.Warning.Sprint("[dry-run]") + fmt.Sprintf(" %d file(s) would be encrypted:", len(result.SourceFiles)) +
				utils.FormatPaths(result.SourceFiles) +
				ui.Info.Sprint("→") + " Run without " + ui.Flag.Sprint("--dry-run") + " to seal them"
			spinner.FinalMSG = finalMessage
			return nil
		}

		Logger.Infof("Encrypt command completed successfully. Created %d sealed files", len(result.SealedFiles))

		finalMessage := ui.Success.Sprint("✓") + " Environment files encrypted successfully!\n" +
			"The following files were created:" + utils.FormatPaths(result.SealedFiles) +
			"Key fingerprint: " + ui.Key.Sprint(result.KeyFingerprint) + "\n" +
			ui.Info.Sprint("→") + " You can now safely commit all " + ui.Path.Sprint(".sealed") + " files to version control"
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// formatEncryptError formats an encrypt error for display to the user.
func formatEncryptError(err error) string {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized):
		return notInitializedMessage()

	case errors.Is(err, eserrors.ErrMissingSecretKey):
		return ui.Error.Sprint("✗") + " No secret key is set for this project\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envseal key generate") + " first"

	case errors.Is(err, eserrors.ErrMissingPassphrase):
		return ui.Error.Sprint("✗") + " A passphrase is required\n" +
			ui.Info.Sprint("→") + " Set " + ui.Code.Sprint("ENVSEAL_PASSPHRASE") + " or run from a terminal"

	case errors.Is(err, eserrors.ErrNoFilesFound):
		return ui.Error.Sprint("✗") + " No environment files found to encrypt"

	case errors.Is(err, eserrors.ErrAlreadyEncrypted):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " The file already carries a sealed header"

	case errors.Is(err, eserrors.ErrFileEmpty):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, eserrors.ErrFileNotFound):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, eserrors.ErrInvalidInput):
		return ui.Error.Sprint("✗") + " " + err.Error()

	default:
		return ui.Error.Sprint("✗") + " Failed to encrypt environment files: " + err.Error()
	}
}

// isEncryptUnexpectedError returns true if the error is unexpected and should
// cause a non-zero exit.
func isEncryptUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized),
		errors.Is(err, eserrors.ErrMissingSecretKey),
		errors.Is(err, eserrors.ErrMissingPassphrase),
		errors.Is(err, eserrors.ErrNoFilesFound),
		errors.Is(err, eserrors.ErrAlreadyEncrypted),
		errors.Is(err, eserrors.ErrFileEmpty),
		errors.Is(err, eserrors.ErrFileNotFound),
		errors.Is(err, eserrors.ErrInvalidInput):
		return false
	default:
		return true
	}
}
