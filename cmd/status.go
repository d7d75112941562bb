package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/ui"
	"github.com/envseal/envseal/internal/workflows"
	"github.com/spf13/cobra"
)

var statusJSONOutput bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSONOutput, "json", false, "output in JSON format")
}

// resetStatusCommandState resets the status command's global state for testing.
func resetStatusCommandState() {
	statusJSONOutput = false
}

// statusJSON is the machine-readable shape of the status report.
type statusJSON struct {
	Project        string           `json:"project"`
	ProjectUUID    string           `json:"project_uuid"`
	KeyState       string           `json:"key_state"`
	KeyFingerprint string           `json:"key_fingerprint,omitempty"`
	Files          []statusFileJSON `json:"files"`
	Summary        statusSumJSON    `json:"summary"`
}

type statusFileJSON struct {
	Path           string `json:"path"`
	Status         string `json:"status"`
	PlaintextMtime string `json:"plaintext_mtime,omitempty"`
	SealedMtime    string `json:"sealed_mtime,omitempty"`
}

type statusSumJSON struct {
	Sealed    int `json:"sealed"`
	Plaintext int `json:"plaintext"`
	Conflict  int `json:"conflict"`
}

var statusCmd = &cobra.Command{
	Use:   "status [patterns...]",
	Short: "Show the key state and encryption status of env files",
	Long: `Shows whether a secret key is set and the state of every env file.

Each file is in one of three states:
  - sealed:    only the encrypted form exists (safe at rest)
  - plaintext: only the plaintext form exists (not yet encrypted)
  - conflict:  both forms exist (interrupted operation, needs attention)

Use --json for machine-readable output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")

		result, err := workflows.Status(context.Background(), workflows.StatusOptions{
			FilePatterns: args,
		})
		if err != nil {
			if statusJSONOutput && errors.Is(err, eserrors.ErrProjectNotInitialized) {
				fmt.Println(`{"error": "Envseal has not been initialized"}`)
				return nil
			}
			fmt.Println(formatStatusError(err))
			if isStatusUnexpectedError(err) {
				return err
			}
			return nil
		}

		if statusJSONOutput {
			return outputStatusJSON(result)
		}

		printStatusReport(result)
		return nil
	},
}

// formatStatusError formats a status error for display to the user.
func formatStatusError(err error) string {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized):
		return notInitializedMessage()

	case errors.Is(err, eserrors.ErrInvalidProjectConfig):
		return ui.Error.Sprint("✗") + " " + err.Error()

	default:
		return ui.Error.Sprint("✗") + " Failed to read project status: " + err.Error()
	}
}

// isStatusUnexpectedError returns true if the error is unexpected and should
// cause a non-zero exit.
func isStatusUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, eserrors.ErrProjectNotInitialized),
		errors.Is(err, eserrors.ErrInvalidProjectConfig):
		return false
	default:
		return true
	}
}

// outputStatusJSON outputs the result as JSON.
func outputStatusJSON(result *workflows.StatusResult) error {
	out := statusJSON{
		Project:        result.ProjectName,
		ProjectUUID:    result.ProjectUUID,
		KeyState:       string(result.KeyState),
		KeyFingerprint: result.KeyFingerprint,
		Files:          make([]statusFileJSON, 0, len(result.Files)),
		Summary: statusSumJSON{
			Sealed:    result.Summary.Sealed,
			Plaintext: result.Summary.Plaintext,
			Conflict:  result.Summary.Conflict,
		},
	}
	for _, f := range result.Files {
		out.Files = append(out.Files, statusFileJSON{
			Path:           f.Path,
			Status:         string(f.Status),
			PlaintextMtime: f.PlaintextMtime,
			SealedMtime:    f.SealedMtime,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// printStatusReport prints a formatted report of the project state.
func printStatusReport(result *workflows.StatusResult) {
	fmt.Printf("Project: %s\n", ui.Highlight.Sprint(result.ProjectName))

	switch result.KeyState {
	case workflows.KeyStateSet:
		fmt.Printf("Key:     %s set (%s)\n", ui.Success.Sprint("✓"), ui.Key.Sprint(result.KeyFingerprint))
	default:
		fmt.Printf("Key:     %s not set (run '%s')\n", ui.Error.Sprint("✗"), ui.Code.Sprint("envseal key generate"))
	}
	fmt.Println()

	if len(result.Files) == 0 {
		fmt.Println(ui.Muted.Sprint("◌") + " No env files found.")
		return
	}

	fmt.Println("Env files:")
	fmt.Println()

	// Calculate column width for file path.
	pathWidth := 30
	for _, file := range result.Files {
		if len(file.Path) > pathWidth {
			pathWidth = len(file.Path)
		}
	}
	// Cap at reasonable width.
	if pathWidth > 60 {
		pathWidth = 60
	}

	fmt.Printf("  %-*s  %s\n", pathWidth, "FILE", "STATUS")

	for _, file := range result.Files {
		displayPath := file.Path
		if len(displayPath) > pathWidth {
			displayPath = "..." + displayPath[len(displayPath)-pathWidth+3:]
		}

		var statusStr string
		switch file.Status {
		case workflows.StatusSealed:
			statusStr = ui.Success.Sprint("✓") + " sealed"
		case workflows.StatusPlaintext:
			statusStr = ui.Error.Sprint("✗") + " plaintext"
		case workflows.StatusConflict:
			statusStr = ui.Warning.Sprint("⚠") + " conflict (both forms exist)"
		}

		fmt.Printf("  %-*s  %s\n", pathWidth, displayPath, statusStr)
	}

	fmt.Println()
	fmt.Println("Summary:")

	if result.Summary.Sealed > 0 {
		fmt.Printf("  %d file(s) sealed\n", result.Summary.Sealed)
	}
	if result.Summary.Plaintext > 0 {
		fmt.Printf("  %d file(s) in plaintext (run '%s' to secure)\n",
			result.Summary.Plaintext, ui.Code.Sprint("envseal encrypt"))
	}
	if result.Summary.Conflict > 0 {
		fmt.Printf("  %d file(s) in conflict (compare both forms, remove one)\n", result.Summary.Conflict)
	}
}
