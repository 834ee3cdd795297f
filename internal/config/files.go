package config

import (
	"os"
	"path/filepath"
)

const AppName = "userdeck"

// ConfigDirEnv overrides the config directory.
const ConfigDirEnv = "USERDECK_CONFIG_DIR"

var (
	// AppConfigDir is ~/.config/userdeck
	AppConfigDir string

	// AppStateDir is ~/.local/state/userdeck
	AppStateDir string

	// AppConfigFile is ~/.config/userdeck/config.yaml
	AppConfigFile string

	// AppHotkeysFile is ~/.config/userdeck/hotkeys.yaml
	AppHotkeysFile string

	// AppAliasesFile is ~/.config/userdeck/aliases.yaml
	AppAliasesFile string

	// AppEndpointsFile is ~/.config/userdeck/endpoints.ini
	AppEndpointsFile string

	// AppPrefsFile is ~/.local/state/userdeck/prefs.yaml
	AppPrefsFile string

	// AppLogFile is ~/.local/state/userdeck/userdeck.log
	AppLogFile string
)

// InitLocs initializes all application paths. It respects XDG environment
// variables if set.
func InitLocs() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	AppConfigDir = filepath.Join(configHome, AppName)
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		AppConfigDir = dir
	}
	AppStateDir = filepath.Join(stateHome, AppName)

	AppConfigFile = filepath.Join(AppConfigDir, "config.yaml")
	AppHotkeysFile = filepath.Join(AppConfigDir, "hotkeys.yaml")
	AppAliasesFile = filepath.Join(AppConfigDir, "aliases.yaml")
	AppEndpointsFile = filepath.Join(AppConfigDir, "endpoints.ini")
	AppPrefsFile = filepath.Join(AppStateDir, "prefs.yaml")
	AppLogFile = filepath.Join(AppStateDir, AppName+".log")

	for _, dir := range []string{AppConfigDir, AppStateDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	return nil
}

// InitLogLoc ensures the log directory exists.
func InitLogLoc(path string) error {
	if path == "" {
		path = AppLogFile
	}
	return os.MkdirAll(filepath.Dir(path), 0700)
}
