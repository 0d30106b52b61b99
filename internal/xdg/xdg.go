package xdg

import (
	"os"
	"path/filepath"
)

// XDGDirs resolves configuration paths according to the XDG Base Directory Specification
type XDGDirs struct {
	configHome string
	configDirs []string
}

// NewXDGDirs reads XDG_CONFIG_HOME and XDG_CONFIG_DIRS with their documented defaults
func NewXDGDirs() *XDGDirs {
	xdg := &XDGDirs{}

	xdg.configHome = os.Getenv("XDG_CONFIG_HOME")
	if xdg.configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv("HOME")
		}
		xdg.configHome = filepath.Join(homeDir, ".config")
	}

	configDirsEnv := os.Getenv("XDG_CONFIG_DIRS")
	if configDirsEnv == "" {
		xdg.configDirs = []string{"/etc/xdg"}
	} else {
		xdg.configDirs = filepath.SplitList(configDirsEnv)
	}

	return xdg
}

// ConfigDirs returns the preference-ordered base directories for configuration files
func (x *XDGDirs) ConfigDirs() []string {
	return append([]string{x.configHome}, x.configDirs...)
}

// FindConfigFile returns the first existing appName/name in ConfigDirs.
func (x *XDGDirs) FindConfigFile(appName, name string) (string, bool) {
	for _, dir := range x.ConfigDirs() {
		p := filepath.Join(dir, appName, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, true
		}
	}
	return "", false
}
