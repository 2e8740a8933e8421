package environment

import (
	"os"
	"path/filepath"
)

const (
	KeyPort      = "BED_CONTROL_PORT"
	KeyConfigDir = "BEDLINK_CONFIG_DIR"
)

func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetEnvPath(key, fallback string, elem ...string) (v string) {
	v = GetEnv(key, fallback)
	return filepath.Join(append([]string{v}, elem...)...)
}

// DefaultPort is the port used when none is given on the command line.
func DefaultPort() string {
	return GetEnv(KeyPort, "")
}

// ConfigPath is the config file loaded when --config is not given.
func ConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "/etc"
	}
	return GetEnvPath(KeyConfigDir, filepath.Join(dir, "bedlink"), "bedlink.yml")
}
