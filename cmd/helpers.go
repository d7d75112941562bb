package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/awnumar/memguard"
	"github.com/briandowns/spinner"
	"github.com/envseal/envseal/internal/configs"
	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/ui"
	"github.com/envseal/envseal/internal/utils"
)

// startSpinner creates and starts a spinner with the given message when not in
// verbose or debug mode. Returns the spinner and a function that should be
// deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		// Discard log output unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debug {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// resolvePassphrase obtains the passphrase for sealing or opening files, in
// order of preference: the ENVSEAL_PASSPHRASE environment variable, then a
// hidden terminal prompt. When confirm is true an interactive entry must be
// typed twice, which guards the first seal of a project against typos.
//
// The spinner is stopped around the prompt so it does not fight the terminal.
func resolvePassphrase(s *spinner.Spinner, confirm bool) (string, error) {
	if envPass := configs.LoadRuntime().Passphrase; envPass != "" {
		Logger.Debugf("Using passphrase from ENVSEAL_PASSPHRASE")
		return envPass, nil
	}

	if !utils.IsTerminal() && !utils.IsTTYAvailable() {
		return "", fmt.Errorf("%w: set ENVSEAL_PASSPHRASE or run from a terminal", eserrors.ErrMissingPassphrase)
	}

	if s != nil {
		s.Stop()
		defer s.Restart()
	}

	pass, err := promptPassphrase("Enter passphrase: ")
	if err != nil {
		return "", err
	}
	if len(pass) == 0 {
		return "", eserrors.ErrMissingPassphrase
	}

	if confirm {
		again, err := promptPassphrase("Confirm passphrase: ")
		if err != nil {
			memguard.WipeBytes(pass)
			return "", err
		}
		match := string(pass) == string(again)
		memguard.WipeBytes(again)
		if !match {
			memguard.WipeBytes(pass)
			return "", fmt.Errorf("%w: passphrases do not match", eserrors.ErrInvalidInput)
		}
	}

	result := string(pass)
	memguard.WipeBytes(pass)
	return result, nil
}

// promptPassphrase reads a hidden passphrase from stdin when it is a
// terminal, falling back to /dev/tty when stdin is occupied by a pipe.
func promptPassphrase(prompt string) ([]byte, error) {
	if utils.IsTerminal() {
		return utils.ReadPassphrase(prompt)
	}
	return utils.ReadPassphraseFromTTY(prompt)
}

// confirmProceed stops the spinner, shows a warning, and asks the user to
// confirm before continuing. Returns true only on an explicit yes.
func confirmProceed(s *spinner.Spinner, warning string, detail ...string) bool {
	s.Stop()

	fmt.Printf("\n%s %s\n", ui.Warning.Sprint("Warning:"), warning)
	for _, line := range detail {
		fmt.Println("  " + line)
	}
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Do you want to continue? [y/N]: ")
	response, err := reader.ReadString('\n')
	if err != nil {
		Logger.Errorf("Failed to read response: %v", err)
		s.Restart()
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))

	s.Restart()
	return response == "y" || response == "yes"
}

// notInitializedMessage is the shared final message for commands that need an
// initialized project.
func notInitializedMessage() string {
	return ui.Error.Sprint("✗") + " Envseal has not been initialized\n" +
		ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envseal init") + " first"
}
