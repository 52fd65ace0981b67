// Package config holds the tool configuration shared by the language server
// and the command line front end. Configuration is read from a TOML file and
// may be overlaid by client-supplied options at runtime.
package config

import (
	"fmt"
	"strings"
)

// DefaultExtension is the file extension the tools act on unless configured
// otherwise.
const DefaultExtension = ".mcfunction"

// Config is the tool configuration.
type Config struct {
	// Extension restricts conversion to files with this extension.
	Extension string `toml:"extension"`

	// Completion enables the completion provider in the language server.
	Completion bool `toml:"completion"`

	// CodeActions enables the code action provider in the language server.
	CodeActions bool `toml:"code_actions"`

	// LogFile is where the language server writes its log. Empty means
	// standard error.
	LogFile string `toml:"log_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Extension:   DefaultExtension,
		Completion:  true,
		CodeActions: true,
	}
}

// NormalizeExtension trims whitespace and ensures a leading dot, so that
// "mcfunction" and ".mcfunction" configure the same thing.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return ext
	}
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	if c.Extension == "" {
		return fmt.Errorf("extension must not be empty")
	}
	if !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("extension %q must start with a dot", c.Extension)
	}
	return nil
}
