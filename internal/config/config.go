// Package config loads the optional TOML defaults shared by the command
// line tools.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "asmkit.toml"

// Config holds tool defaults. Command line options override them.
type Config struct {
	CPU     string   `toml:"cpu"`
	Origin  string   `toml:"origin"`
	Labels  *bool    `toml:"labels"`
	Bytes   *bool    `toml:"bytes"`
	Linear  bool     `toml:"linear"`
	Entries []string `toml:"entries"`
}

// Load reads path, or DefaultFile when path is empty. A missing default
// file gives the zero Config.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	name := path
	if name == "" {
		name = DefaultFile
	}

	_, err := toml.DecodeFile(name, cfg)
	if err != nil && path == "" && errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	return cfg, err
}

// Parse decodes TOML text.
func Parse(text string) (*Config, error) {
	cfg := &Config{}
	_, err := toml.Decode(text, cfg)
	return cfg, err
}

// LabelsOn reports whether listings get synthesised labels.
func (c *Config) LabelsOn() bool {
	return c.Labels == nil || *c.Labels
}

// BytesOn reports whether listings get the byte column, falling back to
// whether f is a terminal.
func (c *Config) BytesOn(f *os.File, isTerminal func(int) bool) bool {
	if c.Bytes != nil {
		return *c.Bytes
	}
	return isTerminal(int(f.Fd()))
}
