package cmd

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/envseal/envseal/internal/ui"
	"github.com/envseal/envseal/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	keyGenerateCopy  bool
	keyGeneratePrint bool
)

func init() {
	keyGenerateCmd.Flags().BoolVar(&keyGenerateCopy, "copy", false, "copy the generated key to the clipboard")
	keyGenerateCmd.Flags().BoolVar(&keyGeneratePrint, "print", false, "print the generated key to stdout")
}

// resetKeyGenerateCommandState resets the key generate command's global state for testing.
func resetKeyGenerateCommandState() {
	keyGenerateCopy = false
	keyGeneratePrint = false
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and store a random secret key",
	Long: `Creates a cryptographically random secret key and stores it for the project.

The key stays in .envseal/secret.env and is never shown unless asked for.
Share it with teammates out of band, or let them recover it from any sealed
file with 'envseal key show --reveal' after a decrypt.

Examples:
  envseal key generate
  envseal key generate --copy     # also place it on the clipboard
  envseal key generate --print    # also print it (careful with shell history)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting key generate command")
		spinner, cleanup := startSpinner("Generating secret key...", verbose)
		defer cleanup()

		result, err := workflows.SetKey(context.Background(), workflows.SetKeyOptions{Generate: true})
		if err != nil {
			spinner.FinalMSG = formatKeySetError(err)
			if isKeySetUnexpectedError(err) {
				return err
			}
			return nil
		}

		finalMessage := ui.Success.Sprint("✓") + " Secret key generated and stored at " + ui.Path.Sprint(result.KeyPath) + "\n" +
			"  Fingerprint: " + ui.Key.Sprint(result.Fingerprint)

		if keyGenerateCopy {
			if err := clipboard.WriteAll(result.Key); err != nil {
				Logger.Warnf("Failed to copy key to clipboard: %v", err)
				finalMessage += "\n" + ui.Warning.Sprint("⚠") + " Could not copy the key to the clipboard: " + err.Error()
			} else {
				finalMessage += "\n" + ui.Info.Sprint("→") + " The key is on your clipboard"
			}
		}

		if keyGeneratePrint {
			finalMessage += "\n  Key: " + result.Key
		}

		finalMessage += "\n" + ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envseal encrypt") + " to seal your env files"
		spinner.FinalMSG = finalMessage
		return nil
	},
}
