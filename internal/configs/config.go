package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type ProjectConfig struct {
	Project Project `toml:"project"`
}

type Project struct {
	UUID      string    `toml:"project_uuid"`
	Name      string    `toml:"name"`
	CreatedAt time.Time `toml:"created_at"`
}

// LoadProjectConfig loads the project configuration from the config file.
// Note: Caller should ensure InitProjectSettings is called before calling this function.
func LoadProjectConfig() (*ProjectConfig, error) {
	configPath := filepath.Join(ProjectEnvsealSettings.ProjectDirPath, "config.toml")

	config := &ProjectConfig{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}

	return config, nil
}

// SaveProjectConfig saves the project configuration to the config file.
// Note: Caller should ensure InitProjectSettings is called before calling this function.
func SaveProjectConfig(config *ProjectConfig) error {
	configPath := filepath.Join(ProjectEnvsealSettings.ProjectDirPath, "config.toml")

	if err := SaveTOML(configPath, config); err != nil {
		return fmt.Errorf("failed to save project config: %w", err)
	}

	return nil
}

// GenerateProjectUUID generates a new UUID for the project.
func GenerateProjectUUID() string {
	return uuid.New().String()
}
