// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"kbuild-cli/internal/issue"
)

const (
	// AppName is the application name, used for the settings directory.
	AppName = "kbuild"
	// SettingsFileName is the name of the settings file (without extension).
	SettingsFileName = "config"
	// SettingsFileExt is the settings file extension.
	SettingsFileExt = "toml"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

// ErrInvalidColorScheme is the sentinel error wrapped by InvalidColorSchemeError.
var ErrInvalidColorScheme = errors.New("invalid color scheme")

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not
	// recognized. It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// UISettings holds presentation preferences.
	UISettings struct {
		Verbose     bool        `mapstructure:"verbose"`
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
	}

	// Settings is kbuild's own configuration, distinct from the workspace's
	// .config option file.
	Settings struct {
		// CargoBinary overrides the cargo executable; empty means PATH lookup.
		CargoBinary string `mapstructure:"cargo_binary"`
		// ConfigFile is the option-file name resolved against the workspace
		// root when no explicit --config path is given.
		ConfigFile string `mapstructure:"config_file"`

		UI UISettings `mapstructure:"ui"`
	}

	// LoadOptions controls where Load looks for the settings file.
	LoadOptions struct {
		// FilePath uses an explicit settings file instead of the default
		// location. The file must exist.
		FilePath string
		// DirPath overrides the settings directory (used by tests).
		DirPath string
	}
)

// IsValid returns whether the ColorScheme is recognized, and a list of
// validation errors if it is not.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (must be auto, dark, or light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme so callers can use errors.Is.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Default returns the built-in settings used when no file is present.
func Default() *Settings {
	return &Settings{
		CargoBinary: "",
		ConfigFile:  ".config",
		UI: UISettings{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Dir returns the kbuild settings directory using platform conventions:
// Windows uses %APPDATA%, macOS uses ~/Library/Application Support, and
// Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
func Dir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the settings from the default location.
func Load() (*Settings, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions reads the settings honoring the given options. A missing
// settings file at the default location falls back to defaults; an explicit
// FilePath that does not exist is an error.
func LoadWithOptions(opts LoadOptions) (*Settings, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("cargo_binary", defaults.CargoBinary)
	v.SetDefault("config_file", defaults.ConfigFile)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)

	if opts.FilePath != "" {
		if _, err := os.Stat(opts.FilePath); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load settings").
				WithResource(opts.FilePath).
				WithSuggestion("Verify the file path is correct").
				Wrap(fmt.Errorf("settings file not found: %s", opts.FilePath)).
				BuildError()
		}
		v.SetConfigFile(opts.FilePath)
		v.SetConfigType(SettingsFileExt)
	} else {
		dir := opts.DirPath
		if dir == "" {
			var err error
			dir, err = Dir()
			if err != nil {
				return nil, err
			}
		}
		v.SetConfigName(SettingsFileName)
		v.SetConfigType(SettingsFileExt)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.FilePath == "" && errors.As(err, &notFound) {
			return defaults, nil
		}
		return nil, issue.NewErrorContext().
			WithOperation("load settings").
			WithResource(v.ConfigFileUsed()).
			WithSuggestion("Check the TOML syntax").
			WithSuggestion("Remove the file to fall back to defaults").
			Wrap(err).
			BuildError()
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load settings").
			WithResource(v.ConfigFileUsed()).
			WithSuggestion("Check the value types against the documented schema").
			Wrap(err).
			BuildError()
	}

	if ok, errs := s.UI.ColorScheme.IsValid(); !ok {
		return nil, issue.NewErrorContext().
			WithOperation("load settings").
			WithResource(v.ConfigFileUsed()).
			WithSuggestion("Use one of: auto, dark, light").
			Wrap(errs[0]).
			BuildError()
	}

	return s, nil
}

// FilePath returns the default settings file path.
func FilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName+"."+SettingsFileExt), nil
}
