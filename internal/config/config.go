// Package config handles the XDG configuration directory, file paths and the
// optional config.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "sidepad"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// SettingsName is the settings file name without extension.
	SettingsName = "config"

	// EnvPrefix prefixes environment overrides, e.g. SIDEPAD_DRIVE_FOLDER.
	EnvPrefix = "SIDEPAD"

	// DefaultFolder is the Drive folder notes are uploaded into.
	DefaultFolder = "Notes"

	// DefaultStoreFile is the local database filename.
	DefaultStoreFile = "sidepad.db"
)

// envKeyReplacer maps nested keys to environment names: drive.folder -> SIDEPAD_DRIVE_FOLDER.
var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Quiet suppresses informational output.
	Quiet bool

	// Settings holds values read from config.yaml and the environment.
	Settings Settings
}

// Settings is the shape of config.yaml.
type Settings struct {
	Drive DriveSettings `mapstructure:"drive"`
	Store StoreSettings `mapstructure:"store"`
	Log   LogSettings   `mapstructure:"log"`
}

// DriveSettings configures uploads.
type DriveSettings struct {
	Folder string `mapstructure:"folder"`
}

// StoreSettings configures the local database.
type StoreSettings struct {
	File string `mapstructure:"file"` // relative paths are resolved against Dir
}

// LogSettings configures the log file. An empty File disables logging.
type LogSettings struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultSettings returns the settings used when config.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Drive: DriveSettings{Folder: DefaultFolder},
		Store: StoreSettings{File: DefaultStoreFile},
		Log:   LogSettings{Level: "info"},
	}
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/sidepad or $HOME/.config/sidepad.
// Settings are loaded from config.yaml in that directory when present.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}

	settings, err := LoadSettings(dir)
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings
	return cfg, nil
}

// LoadSettings reads config.yaml from dir, applying SIDEPAD_* environment
// overrides. A missing file is not an error.
func LoadSettings(dir string) (Settings, error) {
	s := DefaultSettings()

	v := viper.New()
	v.SetConfigName(SettingsName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("drive.folder", s.Drive.Folder)
	v.SetDefault("store.file", s.Store.File)
	v.SetDefault("log.file", s.Log.File)
	v.SetDefault("log.level", s.Log.Level)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return s, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("error parsing config: %w", err)
	}
	if s.Drive.Folder == "" {
		s.Drive.Folder = DefaultFolder
	}
	if s.Store.File == "" {
		s.Store.File = DefaultStoreFile
	}
	return s, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// StorePath returns the path to the local database.
func (c *Config) StorePath() string {
	if filepath.IsAbs(c.Settings.Store.File) {
		return c.Settings.Store.File
	}
	file := c.Settings.Store.File
	if file == "" {
		file = DefaultStoreFile
	}
	return filepath.Join(c.Dir, file)
}

// Folder returns the Drive folder name for uploads.
func (c *Config) Folder() string {
	if c.Settings.Drive.Folder == "" {
		return DefaultFolder
	}
	return c.Settings.Drive.Folder
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}
