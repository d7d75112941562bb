package configs

import (
	"fmt"
	"path/filepath"

	"github.com/envseal/envseal/internal/utils"
)

type ProjectSettings struct {
	ProjectUUID     string
	ProjectName     string
	ProjectPath     string
	ProjectDirPath  string // <root>/.envseal
	ProjectKeyPath  string // <root>/.envseal/secret.env
	ProjectAuditLog string // <root>/.envseal/audit.jsonl
}

var ProjectEnvsealSettings *ProjectSettings

func init() {
	ProjectEnvsealSettings = &ProjectSettings{}
}

// InitProjectSettings resolves the current project's paths by walking up the
// directory tree. If no .envseal directory exists, every path field stays
// empty; callers decide whether that is an error.
func InitProjectSettings() error {
	projectName, err := utils.GetProjectName()
	if err != nil {
		return fmt.Errorf("error getting project name: %w", err)
	}

	projectPath, err := utils.FindProjectEnvsealRoot()
	if err != nil {
		return fmt.Errorf("error getting project root: %w", err)
	}

	settings := &ProjectSettings{
		ProjectName: projectName,
		ProjectPath: projectPath,
	}
	if projectPath != "" {
		settings.ProjectDirPath = filepath.Join(projectPath, ".envseal")
		settings.ProjectKeyPath = filepath.Join(projectPath, ".envseal", "secret.env")
		settings.ProjectAuditLog = filepath.Join(projectPath, ".envseal", "audit.jsonl")
	}
	ProjectEnvsealSettings = settings

	return nil
}
