// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML settings file.
type FileConfig struct {
	Reader ReaderConfig `toml:"reader"`
}

// ReaderConfig maps reader timing and display settings.
type ReaderConfig struct {
	WPM           *int  `toml:"wpm"`
	Countdown     *int  `toml:"countdown"`
	RefreshRate   *int  `toml:"refresh-rate-ms"`
	InputInterval *int  `toml:"input-interval-ms"`
	PromptTimeout *int  `toml:"prompt-timeout"`
	MinWidth      *int  `toml:"min-width"`
	MinHeight     *int  `toml:"min-height"`
	History       *bool `toml:"history"`
}

// LoadSettings reads a TOML settings file from the given path. Missing file is not an error.
func LoadSettings(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("settings path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat settings: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown settings key %q", undecoded[0].String())
	}
	return cfg, nil
}

// CommandTemplate is written when the command config file is first created.
const CommandTemplate = `# fltrdr command config
# Each line is a command, the same as typed at the ':' prompt.
# Lines starting with '#' are ignored.

# style primary #C89A3A
# style secondary #6E6E6E
# style text-highlight red bright
# sym progress ━
# sym border.top.line ─
# set view on
# prev 2
# next 2
# offset 2
# wpm 300
`
