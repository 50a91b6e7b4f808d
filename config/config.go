// Package config loads the UI-side settings for the file transfer widgets
// from the environment.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// envPrefix namespaces the environment variables read by Load, e.g.
// QTOX_SAVE_DIRECTORY.
const envPrefix = "qtox"

// Settings holds the tunable behavior of the file transfer UI.
type Settings struct {
	// SaveDirectory is the default location offered when accepting an
	// incoming file. Empty means the process working directory.
	SaveDirectory string `envconfig:"SAVE_DIRECTORY"`
	// PreviewEnabled toggles inline image previews for transferred files.
	PreviewEnabled bool `envconfig:"PREVIEW_ENABLED" default:"true"`
	// LogLevel sets the logrus level for the whole process.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warning error"`
}

// Load reads settings from the environment, validates them, and applies the
// configured log level.
func Load() (*Settings, error) {
	var s Settings
	if err := envconfig.Process(envPrefix, &s); err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	if err := validator.New().Struct(&s); err != nil {
		return nil, fmt.Errorf("validating settings: %w", err)
	}

	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	logrus.SetLevel(level)

	logrus.WithFields(logrus.Fields{
		"function":        "Load",
		"save_directory":  s.SaveDirectory,
		"preview_enabled": s.PreviewEnabled,
		"log_level":       s.LogLevel,
	}).Debug("Settings loaded")

	return &s, nil
}
