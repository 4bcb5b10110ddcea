package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds viewer defaults that are not per-model data.
type Config struct {
	ListenAddr    string  `yaml:"listen_addr"`
	WebDir        string  `yaml:"web_dir"`
	PlaybackFPS   float64 `yaml:"playback_fps"`
	PlaybackSpeed float64 `yaml:"playback_speed"`
}

var current = Default()

func Default() Config {
	return Config{
		ListenAddr:    ":8000",
		WebDir:        "web",
		PlaybackFPS:   1000.0,
		PlaybackSpeed: 1.0,
	}
}

func Get() Config {
	return current
}

func Set(c Config) {
	current = c
}

// LoadFromFile overlays the current config with values from a yaml file.
func LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to read config %q", path)
	}
	c := current
	if err := yaml.Unmarshal(data, &c); err != nil {
		return errors.Wrapf(err, "Failed to parse config %q", path)
	}
	current = c
	return nil
}
