package cmd

import (
	"fmt"
	"os"

	"github.com/envseal/envseal/internal/configs"
	logger "github.com/envseal/envseal/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	// runExitCode carries the child's exit status out of `envseal run` so
	// Execute can propagate it without tearing down mid-command.
	runExitCode int

	RootCmd = &cobra.Command{
		Use:   "envseal",
		Short: "Envseal - encrypted .env files for your project",
		Long: `Envseal protects your .env files at rest. Each file is sealed line by
line under a project secret key, and the secret key itself travels inside the
sealed file, wrapped under a passphrase. Anyone with the passphrase can work
with the files; nobody without it can read a single value.

Typical flow:
  envseal init              initialize the project
  envseal key generate      create the project secret key
  envseal encrypt           seal all .env files
  envseal run -- <cmd>      run a command with decrypted variables injected
  envseal decrypt           restore the plaintext files

Run 'envseal help <command>' for more details on a specific command.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if configs.LoadRuntime().Debug {
				debug = true
			}
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing envseal with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(keyCmd)
	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(rekeyCmd)
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(logCmd)
}

// Execute runs the root command and exits the process on failure. When
// `envseal run` executed a child command, its exit code is passed through.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if runExitCode != 0 {
		os.Exit(runExitCode)
	}
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	runExitCode = 0
	resetInitCommandState()
	resetKeyCommandState()
	resetEncryptCommandState()
	resetDecryptCommandState()
	resetRekeyCommandState()
	resetRunCommandState()
	resetStatusCommandState()
	resetLogCommandState()
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
