package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/awnumar/memguard"
	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/ui"
	"github.com/envseal/envseal/internal/utils"
	"github.com/envseal/envseal/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	rekeyNewKey        string
	rekeyGenerate      bool
	rekeyNewPassphrase bool
	rekeyForce         bool
)

func init() {
	rekeyCmd.Flags().StringVar(&rekeyNewKey, "new", "", "the replacement secret key")
	rekeyCmd.Flags().BoolVar(&rekeyGenerate, "generate", false, "generate a random replacement key")
	rekeyCmd.Flags().BoolVar(&rekeyNewPassphrase, "new-passphrase", false, "also change the passphrase (prompted twice)")
	rekeyCmd.Flags().BoolVar(&rekeyForce, "force", false, "skip confirmation prompt")
}

// resetRekeyCommandState resets the rekey command's global state for testing.
func resetRekeyCommandState() {
	rekeyNewKey = ""
	rekeyGenerate = false
	rekeyNewPassphrase = false
	rekeyForce = false
}

var rekeyCmd = &cobra.Command{
	Use:   "rekey [patterns...]",
	Short: "Rotate the secret key while files stay encrypted",
	Long: `Re-encrypts every sealed file under a new secret key, and optionally a new
passphrase, without plaintext ever touching disk.

All files are decrypted in memory first; if anything fails, nothing is
modified. Only after every file re-encrypts cleanly is the stored key
replaced. Use this instead of 'envseal key rotate' whenever files are
currently sealed.

Examples:
  # New random key, same passphrase
  envseal rekey --generate

  # Specific replacement key
  envseal rekey --new replacement-key

  # New random key and a new passphrase
  envseal rekey --generate --new-passphrase`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting rekey command")
		spinner, cleanup := startSpinner("Re-encrypting under new key...", verbose)
		defer cleanup()

		if rekeyNewKey == "" && !rekeyGenerate && !rekeyNewPassphrase {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Nothing to change\n" +
				ui.Info.Sprint("→") + " Give a new key with " + ui.Flag.Sprint("--new") + " or " + ui.Flag.Sprint("--generate") +
				", or change the passphrase with " + ui.Flag.Sprint("--new-passphrase")
			return nil
		}

		oldPassphrase, err := resolvePassphrase(spinner, false)
		if err != nil {
			spinner.FinalMSG = formatRekeyError(err)
			if isRekeyUnexpectedError(err) {
				return err
			}
			return nil
		}

		newPassphrase := ""
		if rekeyNewPassphrase {
			spinner.Stop()
			pass, err := promptPassphrase("New passphrase: ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read new passphrase: %v", err)
			}
			again, err := promptPassphrase("Confirm new passphrase: ")
			if err != nil {
				memguard.WipeBytes(pass)
				return Logger.ErrorfAndReturn("failed to read new passphrase: %v", err)
			}
			match := string(pass) == string(again)
			memguard.WipeBytes(again)
			if !match {
				memguard.WipeBytes(pass)
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Passphrases do not match"
				return nil
			}
			newPassphrase = string(pass)
			memguard.WipeBytes(pass)
			spinner.Restart()
		}

		if !rekeyForce {
			if !confirmProceed(spinner,
				"This will re-encrypt all sealed files under a new secret key.",
				"Teammates will need the new key fingerprint to verify, and the",
				"new passphrase if you are changing it.") {
				spinner.FinalMSG = ui.Warning.Sprint("⚠") + " Rekey cancelled."
				return nil
			}
		}

		result, err := workflows.Rekey(context.Background(), workflows.RekeyOptions{
			FilePatterns:  args,
			OldPassphrase: oldPassphrase,
			NewPassphrase: newPassphrase,
			NewKey:        rekeyNewKey,
			Generate:      rekeyGenerate,
		})
		if err != nil {
			spinner.FinalMSG = formatRekeyError(err)
			if isRekeyUnexpectedError(err) {
				return err
			}
			return nil
		}

		finalMessage := ui.Success.Sprint("✓") + fmt.Sprintf(" %d file(s) re-encrypted under the new key:", len(result.Files)) +
			utils.FormatPaths(result.Files) +
			"  Old fingerprint: " + ui.Key.Sprint(result.OldFingerprint) + "\n" +
			"  New fingerprint: " + ui.Key.Sprint(result.NewFingerprint)
		if rekeyNewPassphrase {
			finalMessage += "\n" + ui.Info.Sprint("→") + " The new passphrase is now required to decrypt"
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// formatRekeyError formats a rekey error for display to the user.
func formatRekeyError(err error) string {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized):
		return notInitializedMessage()

	case errors.Is(err, eserrors.ErrMissingPassphrase):
		return ui.Error.Sprint("✗") + " A passphrase is required\n" +
			ui.Info.Sprint("→") + " Set " + ui.Code.Sprint("ENVSEAL_PASSPHRASE") + " or run from a terminal"

	case errors.Is(err, eserrors.ErrNotEncrypted):
		return ui.Error.Sprint("✗") + " No sealed environment files found to rekey\n" +
			ui.Info.Sprint("→") + " Use " + ui.Code.Sprint("envseal key rotate") + " when nothing is encrypted"

	case errors.Is(err, eserrors.ErrDecryptionFailed):
		return ui.Error.Sprint("✗") + " Decryption failed, nothing was modified. Is the passphrase correct?"

	case errors.Is(err, eserrors.ErrInvalidFormat), errors.Is(err, eserrors.ErrMalformedToken):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " A sealed file is corrupted; nothing was modified"

	case errors.Is(err, eserrors.ErrInvalidInput):
		return ui.Error.Sprint("✗") + " Provide a replacement with " + ui.Flag.Sprint("--new") + " or " + ui.Flag.Sprint("--generate")

	default:
		return ui.Error.Sprint("✗") + " Failed to rekey environment files: " + err.Error()
	}
}

// isRekeyUnexpectedError returns true if the error is unexpected and should
// cause a non-zero exit.
func isRekeyUnexpectedError(err error) bool {
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
