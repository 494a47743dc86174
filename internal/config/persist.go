package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"duskfs/internal/domain"
)

const (
	configDirName  = "duskfs"
	configFileName = "config.json"
)

func PrefsPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

func LoadPrefs() (Prefs, error) {
	prefs := DefaultPrefs()
	path, err := PrefsPath()
	if err != nil {
		return prefs, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		return prefs, err
	}
	var stored filePrefs
	if err := json.Unmarshal(data, &stored); err != nil {
		return prefs, err
	}
	return mergePrefs(prefs, stored), nil
}

func SavePrefs(prefs Prefs) error {
	path, err := PrefsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergePrefs(base Prefs, stored filePrefs) Prefs {
	merged := base
	if stored.SortMode != nil {
		merged.SortMode = sortMode(*stored.SortMode, base.SortMode)
	}
	if stored.ApparentSize != nil {
		merged.ApparentSize = *stored.ApparentSize
	}
	return merged
}

func sortMode(value string, fallback domain.SortMode) domain.SortMode {
	switch domain.SortMode(value) {
	case domain.SortByName, domain.SortBySize, domain.SortByCount:
		return domain.SortMode(value)
	default:
		return fallback
	}
}
