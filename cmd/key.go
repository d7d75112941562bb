package cmd

import (
	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the project secret key",
	Long: `Provides creation, rotation, and inspection of the project secret key.

The secret key encrypts the values inside your env files. It lives in
.envseal/secret.env and also travels inside every sealed file, wrapped under
your passphrase, so a fresh clone can be decrypted with the passphrase alone.`,
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyGenerateCmd)
	keyCmd.AddCommand(keyRotateCmd)
	keyCmd.AddCommand(keyShowCmd)
}

// resetKeyCommandState resets the key commands' global state for testing.
func resetKeyCommandState() {
	resetKeySetCommandState()
	resetKeyGenerateCommandState()
	resetKeyRotateCommandState()
	resetKeyShowCommandState()
}
