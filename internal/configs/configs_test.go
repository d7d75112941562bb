package configs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// withProjectDir points ProjectEnvsealSettings at a temp project for the
// duration of a test.
func withProjectDir(t *testing.T, projectPath string) {
	t.Helper()
	original := ProjectEnvsealSettings
	ProjectEnvsealSettings = &ProjectSettings{
		ProjectName:     filepath.Base(projectPath),
		ProjectPath:     projectPath,
		ProjectDirPath:  filepath.Join(projectPath, ".envseal"),
		ProjectKeyPath:  filepath.Join(projectPath, ".envseal", "secret.env"),
		ProjectAuditLog: filepath.Join(projectPath, ".envseal", "audit.jsonl"),
	}
	t.Cleanup(func() {
		ProjectEnvsealSettings = original
	})
}

func TestSaveAndLoadTOML(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "envseal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	type payload struct {
		Name  string `toml:"name"`
		Count int    `toml:"count"`
	}

	path := filepath.Join(tempDir, "nested", "data.toml")
	if err := SaveTOML(path, payload{Name: "envseal", Count: 3}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var loaded payload
	if err := LoadTOML(path, &loaded); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if loaded.Name != "envseal" || loaded.Count != 3 {
		t.Errorf("Expected round trip, got: %+v", loaded)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("Expected 0600 permissions, got: %v", info.Mode().Perm())
		}
	}
}

func TestLoadProjectConfigMissing(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "envseal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	withProjectDir(t, tempDir)

	config, err := LoadProjectConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if config.Project.UUID != "" {
		t.Errorf("Expected empty config, got: %+v", config)
	}
}

func TestSaveAndLoadProjectConfig(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "envseal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	withProjectDir(t, tempDir)

	saved := &ProjectConfig{
		Project: Project{
			UUID:      GenerateProjectUUID(),
			Name:      "my-project",
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		},
	}
	if err := SaveProjectConfig(saved); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	loaded, err := LoadProjectConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if loaded.Project.UUID != saved.Project.UUID {
		t.Errorf("Expected UUID %s, got: %s", saved.Project.UUID, loaded.Project.UUID)
	}
	if loaded.Project.Name != "my-project" {
		t.Errorf("Expected my-project, got: %s", loaded.Project.Name)
	}
	if !loaded.Project.CreatedAt.Equal(saved.Project.CreatedAt) {
		t.Errorf("Expected %v, got: %v", saved.Project.CreatedAt, loaded.Project.CreatedAt)
	}
}

func TestGenerateProjectUUID(t *testing.T) {
	first := GenerateProjectUUID()
	second := GenerateProjectUUID()
	if first == "" || first == second {
		t.Errorf("Expected distinct non-empty UUIDs, got: %q and %q", first, second)
	}
}

func TestLoadRuntime(t *testing.T) {
	t.Setenv("ENVSEAL_PASSPHRASE", "hunter2")
	t.Setenv("ENVSEAL_ENV_FILE", ".env.production")
	t.Setenv("ENVSEAL_DEBUG", "true")

	rt := LoadRuntime()
	if rt.Passphrase != "hunter2" {
		t.Errorf("Expected hunter2, got: %q", rt.Passphrase)
	}
	if rt.EnvFile != ".env.production" {
		t.Errorf("Expected .env.production, got: %q", rt.EnvFile)
	}
	if !rt.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestLoadRuntimeDefaults(t *testing.T) {
	t.Setenv("ENVSEAL_PASSPHRASE", "")
	t.Setenv("ENVSEAL_ENV_FILE", "")
	t.Setenv("ENVSEAL_DEBUG", "")

	rt := LoadRuntime()
	if rt.Passphrase != "" || rt.EnvFile != "" || rt.Debug {
		t.Errorf("Expected zero values, got: %+v", rt)
	}
}
