// Package storage persists search results and perft counts in BadgerDB.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chesscore"

// EnvDataDir overrides the platform data directory when set.
const EnvDataDir = "CHESSCORE_DATA"

// DataDir returns $CHESSCORE_DATA, or a chesscore directory under the
// per-user data location of the OS, creating it if needed.
func DataDir() (string, error) {
	dir := os.Getenv(EnvDataDir)
	if dir == "" {
		base, err := userDataBase()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, appName)
	}
	return dir, os.MkdirAll(dir, 0755)
}

// userDataBase is where the OS keeps per-user application data.
func userDataBase() (string, error) {
	var env string
	var fallback []string
	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	default:
		env, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}

	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// DatabaseDir returns the badger directory inside DataDir.
func DatabaseDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	dbDir := filepath.Join(dataDir, "analysis")
	return dbDir, os.MkdirAll(dbDir, 0755)
}
