// Package config implements configuration parsing for huffcodec.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the configuration file read when none is named explicitly.
// It is not an error for it to be missing.
const DefaultFile = "/etc/huffcodec/huffcodec.toml"

// Configuration specifies the complete huffcodec configuration.
type Configuration struct {
	File string `flag:"config" default:"/etc/huffcodec/huffcodec.toml" usage:"The path to the configuration file" toml:"-"`

	// FileLoaded is true if File existed and was read.
	FileLoaded bool `toml:"-"`

	Verbose bool `flag:"verbose" default:"false" usage:"Log each phase of the run" toml:"verbose"`
	Stats   bool `flag:"stats" default:"false" usage:"Print compression statistics" toml:"stats"`
	Force   bool `flag:"force" default:"false" usage:"Overwrite the output file if it exists" toml:"force"`

	Debug Debug `toml:"debug"`

	BufferSize int64 `flag:"buffer-size" default:"65536" usage:"Size of the read and write buffers, in bytes" toml:"buffer_size"`
}

// Debug specifies the debugging dumps written to stderr.
type Debug struct {
	DumpTree  bool `flag:"dump-tree" default:"false" usage:"Dump the Huffman tree level by level" toml:"dump_tree"`
	DumpCodes bool `flag:"dump-codes" default:"false" usage:"Dump the frequency and code tables" toml:"dump_codes"`
}

const envPrefix = "HUFFCODEC_"

// Load registers the configuration flags on fs, parses args and returns the
// complete configuration.  The remaining positional arguments are available
// from fs.Args() afterwards.
//
// Environment variables take precedence over the configuration file,
// but command line flags take precedence over both.
func Load(fs *flag.FlagSet, args []string) (Configuration, error) {
	config := Configuration{}

	if err := setupFlags(fs, reflect.ValueOf(config)); err != nil {
		return config, err
	}
	if err := fs.Parse(args); err != nil {
		return config, err
	}
	if err := setUnsetFlagsFromEnv(fs, flagNames(reflect.ValueOf(config))); err != nil {
		return config, err
	}

	setDefaults(reflect.ValueOf(&config).Elem())

	if err := parseConfigFile(fs, &config); err != nil {
		return config, err
	}
	if err := setFromFlags(fs, reflect.ValueOf(&config).Elem()); err != nil {
		return config, err
	}

	if config.BufferSize <= 0 {
		return config, fmt.Errorf("buffer-size must be positive, got %d", config.BufferSize)
	}
	return config, nil
}

// Defaults returns the configuration with every field at its default value.
func Defaults() Configuration {
	config := Configuration{}
	setDefaults(reflect.ValueOf(&config).Elem())
	return config
}

// WriteExample writes the default configuration, in TOML, to w.
func WriteExample(w io.Writer) error {
	return toml.NewEncoder(w).Encode(Defaults())
}

func parseConfigFile(fs *flag.FlagSet, config *Configuration) error {
	configFile := fs.Lookup("config").Value.String()
	explicit := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	config.File = configFile
	md, err := toml.DecodeFile(configFile, config)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config file %q: %w", configFile, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return fmt.Errorf("config file %q: unknown keys: %s", configFile, strings.Join(keys, ", "))
	}
	config.FileLoaded = true
	return nil
}

// setUnsetFlagsFromEnv only consults the environment for flags backed by a
// Configuration field; other flags registered on fs by the caller are
// command line only.
func setUnsetFlagsFromEnv(fs *flag.FlagSet, names map[string]bool) error {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	var err error
	fs.VisitAll(func(f *flag.Flag) {
		if err != nil || set[f.Name] || !names[f.Name] {
			return
		}
		if val := envValueForFlag(f.Name); val != "" {
			if err2 := fs.Set(f.Name, val); err2 != nil {
				err = fmt.Errorf("environment %s: %w", envKeyForFlag(f.Name), err2)
			}
		}
	})
	return err
}

func envKeyForFlag(name string) string {
	return envPrefix + strings.ToUpper(strings.Replace(name, "-", "_", -1))
}

func envValueForFlag(name string) string {
	return os.Getenv(envKeyForFlag(name))
}
