package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// UserEnvPath returns ~/.config/craft/.env.
func UserEnvPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "craft", ".env"), nil
}

// LoadEnv loads the user env file and then ./.env. Variables already set
// in the environment are never overridden, so earlier files win.
func LoadEnv() error {
	path, err := UserEnvPath()
	if err != nil {
		return err
	}
	return loadEnvFiles(path, ".env")
}

func loadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// WriteUserEnv merges values into the user env file and returns its path.
func WriteUserEnv(values map[string]string) (string, error) {
	path, err := UserEnvPath()
	if err != nil {
		return "", err
	}
	return path, WriteEnvFile(path, values)
}

// WriteEnvFile merges values into the env file at path, creating it and its
// directory when missing.
func WriteEnvFile(path string, values map[string]string) error {
	merged := map[string]string{}
	if existing, err := godotenv.Read(path); err == nil {
		merged = existing
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	for k, v := range values {
		merged[k] = v
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := godotenv.Write(merged, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.Chmod(path, 0600)
}
