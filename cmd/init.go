package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/common-nighthawk/go-figure"
	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/ui"
	"github.com/envseal/envseal/internal/workflows"
	"github.com/spf13/cobra"
)

var initProjectName string

func init() {
	initCmd.Flags().StringVar(&initProjectName, "name", "", "project name (defaults to the directory name)")
}

// resetInitCommandState resets the init command's global state for testing.
func resetInitCommandState() {
	initProjectName = ""
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize an Envseal project in the current directory",
	Long: `Creates the .envseal directory and the project config.

No secret key is created during init. Set one explicitly:

  envseal key generate      create a random key
  envseal key set <value>   bring your own key

Examples:
  envseal init
  envseal init --name my-service`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")
		spinner, cleanup := startSpinner("Initializing Envseal...", verbose)
		defer cleanup()

		result, err := workflows.Init(context.Background(), workflows.InitOptions{
			ProjectName: initProjectName,
		})
		if err != nil {
			spinner.FinalMSG = formatInitError(err)
			if isInitUnexpectedError(err) {
				return err
			}
			return nil
		}

		spinner.Stop()
		fmt.Println()
		banner := figure.NewColorFigure("Envseal", "alligator2", "green", true)
		banner.Print()
		fmt.Println()

		finalMessage := ui.Success.Sprint("✓") + " Project " + ui.Highlight.Sprint(result.ProjectName) + " initialized\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envseal key generate") + " to create the project secret key"
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// formatInitError formats an init error for display to the user.
func formatInitError(err error) string {
	switch {
	case errors.Is(err, eserrors.ErrProjectAlreadyInitialized):
		return ui.Error.Sprint("✗") + " Envseal has already been initialized\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envseal status") + " to inspect the project"

	default:
		return ui.Error.Sprint("✗") + " Failed to initialize project: " + err.Error()
	}
}

// isInitUnexpectedError returns true if the error is unexpected and should
// cause a non-zero exit.
func isInitUnexpectedError(err error) bool {
	return !errors.Is(err, eserrors.ErrProjectAlreadyInitialized)
}
