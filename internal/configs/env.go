package configs

import (
	"github.com/allisson/go-env"
)

// Runtime holds ENVSEAL_* environment overrides, read once per invocation.
// These exist so CI pipelines can run envseal without a terminal.
type Runtime struct {
	// Passphrase supplies the passphrase normally read from the terminal.
	Passphrase string
	// EnvFile overrides the default env file target.
	EnvFile string
	// Debug enables debug output, same as the --debug flag.
	Debug bool
}

// LoadRuntime reads the ENVSEAL_* environment variables.
func LoadRuntime() *Runtime {
	return &Runtime{
		Passphrase: env.GetString("ENVSEAL_PASSPHRASE", ""),
		EnvFile:    env.GetString("ENVSEAL_ENV_FILE", ""),
		Debug:      env.GetBool("ENVSEAL_DEBUG", false),
	}
}
