package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// defaultConfigFile is read from the working directory when --config is
// not given.
const defaultConfigFile = "movedec.toml"

// fileConfig mirrors movedec.toml.
type fileConfig struct {
	Dialect   string `toml:"dialect"`
	OutputDir string `toml:"output_dir"`
	CacheDir  string `toml:"cache_dir"`
	Light     bool   `toml:"light"`
	Jobs      int    `toml:"jobs"`
}

// options is the resolved command configuration.
type options struct {
	Input       string
	Output      string
	Dialect     string
	CacheDir    string
	Color       string
	Jobs        int
	Light       bool
	Interactive bool
	Verbose     bool
}

// loadConfig reads path, or defaultConfigFile when path is empty. A missing
// default file is not an error.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fileConfig{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// merge fills options from cfg wherever the matching flag was not set.
func (o *options) merge(cfg fileConfig, flags *pflag.FlagSet) {
	if !flags.Changed("dialect") && cfg.Dialect != "" {
		o.Dialect = cfg.Dialect
	}
	if !flags.Changed("output") && cfg.OutputDir != "" {
		o.Output = cfg.OutputDir
	}
	if !flags.Changed("cache-dir") && cfg.CacheDir != "" {
		o.CacheDir = cfg.CacheDir
	}
	if !flags.Changed("light") && cfg.Light {
		o.Light = true
	}
	if !flags.Changed("jobs") && cfg.Jobs != 0 {
		o.Jobs = cfg.Jobs
	}
}
