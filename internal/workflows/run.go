package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/envseal/envseal/internal/audit"
	"github.com/envseal/envseal/internal/codec"
	"github.com/envseal/envseal/internal/configs"
	"github.com/envseal/envseal/internal/dotenv"
	eserrors "github.com/envseal/envseal/internal/errors"
)

// RunOptions configures the run workflow.
type RunOptions struct {
	// EnvFile is the env file whose sealed form supplies the variables.
	// Accepts either the plaintext or the .sealed path. Defaults to .env
	// at the project root.
	EnvFile string

	// Passphrase unwraps the secret key from the sealed file's header.
	Passphrase string

	// Command is the program and its arguments to execute.
	Command []string
}

// RunResult contains the outcome of a run operation.
type RunResult struct {
	// ExitCode is the exit code of the executed command.
	ExitCode int

	// VarCount is the number of variables injected into the environment.
	VarCount int

	// EnvFile is the sealed file the variables came from.
	EnvFile string
}

// Run executes a command with decrypted variables in its environment.
//
// The sealed file is decrypted in memory; no plaintext ever reaches disk.
// Every assignment in the decrypted content except the reserved secret key
// line is added to the child's environment on top of the parent's. The
// child inherits stdin, stdout, and stderr.
//
// Returns ErrProjectNotInitialized if the project has no .envseal directory.
// Returns ErrMissingPassphrase if the passphrase is empty.
// Returns ErrInvalidInput if no command is given.
// Returns ErrNotEncrypted if the sealed file does not exist.
// The command's own failure is reported through ExitCode, not an error.
func Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("initializing project settings: %w", err)
	}

	projectPath := configs.ProjectEnvsealSettings.ProjectPath
	if projectPath == "" {
		return nil, eserrors.ErrProjectNotInitialized
	}

	if len(opts.Command) == 0 {
		return nil, fmt.Errorf("%w: no command to run", eserrors.ErrInvalidInput)
	}
	if opts.Passphrase == "" {
		return nil, eserrors.ErrMissingPassphrase
	}

	sealedPath := resolveSealedPath(opts.EnvFile, projectPath)
	data, err := os.ReadFile(sealedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", eserrors.ErrNotEncrypted, sealedPath)
		}
		return nil, fmt.Errorf("reading %s: %w", sealedPath, err)
	}

	body, err := codec.DecryptFile(dotenv.SplitLines(string(data)), opts.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("decrypting %s: %w", sealedPath, err)
	}

	vars, err := godotenv.Unmarshal(strings.Join(body, "\n"))
	if err != nil {
		return nil, fmt.Errorf("parsing decrypted variables: %w", err)
	}
	delete(vars, dotenv.ReservedLabel)

	env := os.Environ()
	for k, v := range vars {
		env = append(env, k+"="+v)
	}

	cmd := exec.CommandContext(ctx, opts.Command[0], opts.Command[1:]...) // #nosec G204 -- running the user's own command is the point.
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	result := &RunResult{
		VarCount: len(vars),
		EnvFile:  sealedPath,
	}

	auditEntry := audit.NewEntry("run")
	auditEntry.Command = strings.Join(opts.Command, " ")
	auditEntry.VarCount = len(vars)
	audit.Log(auditEntry)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("running command: %w", err)
	}

	return result, nil
}

// resolveSealedPath maps the env file option to the sealed file to read.
func resolveSealedPath(envFile, projectPath string) string {
	path := envFile
	if path == "" {
		path = ".env"
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectPath, path)
	}
	if dotenv.IsSealedFile(path) {
		return path
	}
	return dotenv.SealedPath(path)
}
