package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/envseal/envseal/internal/audit"
	"github.com/envseal/envseal/internal/configs"
	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/utils"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// ProjectName is the name for the project. If empty, uses the directory name.
	ProjectName string
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// ProjectName is the name of the initialized project.
	ProjectName string

	// ProjectUUID is the unique identifier assigned to the project.
	ProjectUUID string

	// ProjectPath is the root path of the project.
	ProjectPath string
}

// Init initializes a new Envseal project in the current directory.
//
// It creates the .envseal directory and writes the project config. No secret
// key is created; that is a separate step (`envseal key set` or
// `envseal key generate`).
//
// Returns ErrProjectAlreadyInitialized if the directory is already inside an
// Envseal project.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	existingRoot, err := utils.FindProjectEnvsealRoot()
	if err != nil {
		return nil, fmt.Errorf("checking for existing project: %w", err)
	}
	if existingRoot != "" {
		return nil, fmt.Errorf("%w: found at %s", eserrors.ErrProjectAlreadyInitialized, existingRoot)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	projectName := opts.ProjectName
	if projectName == "" {
		projectName = filepath.Base(wd)
	}

	envsealDir := filepath.Join(wd, ".envseal")
	cleanupNeeded := false
	defer func() {
		if cleanupNeeded {
			os.RemoveAll(envsealDir)
		}
	}()

	if err := os.MkdirAll(envsealDir, 0700); err != nil {
		return nil, fmt.Errorf("creating .envseal directory: %w", err)
	}
	cleanupNeeded = true

	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("initializing project settings: %w", err)
	}

	projectConfig := &configs.ProjectConfig{
		Project: configs.Project{
			UUID:      configs.GenerateProjectUUID(),
			Name:      projectName,
			CreatedAt: time.Now().UTC(),
		},
	}
	if err := configs.SaveProjectConfig(projectConfig); err != nil {
		return nil, fmt.Errorf("saving project config: %w", err)
	}

	auditEntry := audit.NewEntry("init")
	auditEntry.ProjectName = projectName
	auditEntry.ProjectUUID = projectConfig.Project.UUID
	audit.Log(auditEntry)

	cleanupNeeded = false

	return &InitResult{
		ProjectName: projectName,
		ProjectUUID: projectConfig.Project.UUID,
		ProjectPath: wd,
	}, nil
}
