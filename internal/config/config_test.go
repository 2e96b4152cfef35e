package config

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	gc "gopkg.in/check.v1"
)

func Test(t *testing.T) { gc.TestingT(t) }

type ConfigSuite struct {
	dir string
}

var _ = gc.Suite(&ConfigSuite{})

func (s *ConfigSuite) SetUpTest(c *gc.C) {
	s.dir = c.MkDir()
	for _, key := range []string{"CONFIG", "VERBOSE", "STATS", "FORCE", "DUMP_TREE", "DUMP_CODES", "BUFFER_SIZE", "VERSION"} {
		os.Unsetenv(envPrefix + key)
	}
}

func (s *ConfigSuite) TearDownTest(c *gc.C) {
	s.SetUpTest(c)
}

func (s *ConfigSuite) writeFile(c *gc.C, text string) string {
	path := filepath.Join(s.dir, "huffcodec.toml")
	c.Assert(os.WriteFile(path, []byte(text), 0o644), gc.IsNil)
	return path
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("huffcodec", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (s *ConfigSuite) TestDefaults(c *gc.C) {
	config := Defaults()
	c.Check(config.File, gc.Equals, DefaultFile)
	c.Check(config.Verbose, gc.Equals, false)
	c.Check(config.Debug.DumpTree, gc.Equals, false)
	c.Check(config.BufferSize, gc.Equals, int64(65536))
}

func (s *ConfigSuite) TestLoadMissingDefaultFile(c *gc.C) {
	fs := newFlagSet()
	config, err := Load(fs, []string{"compress", "in", "out"})
	c.Assert(err, gc.IsNil)
	c.Check(config.FileLoaded, gc.Equals, false)
	c.Check(config.BufferSize, gc.Equals, int64(65536))
	c.Check(fs.Args(), gc.DeepEquals, []string{"compress", "in", "out"})
}

func (s *ConfigSuite) TestLoadMissingExplicitFile(c *gc.C) {
	_, err := Load(newFlagSet(), []string{"-config", filepath.Join(s.dir, "nope.toml")})
	c.Check(err, gc.ErrorMatches, `config file ".*nope.toml": .*`)
}

func (s *ConfigSuite) TestPrecedence(c *gc.C) {
	path := s.writeFile(c, `
verbose = true
stats = true
buffer_size = 1024

[debug]
dump_tree = true
`)

	type testRow struct {
		env    map[string]string
		args   []string
		expect Configuration
	}

	tests := []testRow{
		{
			args: []string{"-config", path},
			expect: Configuration{
				File: path, FileLoaded: true, Verbose: true, Stats: true,
				Debug: Debug{DumpTree: true}, BufferSize: 1024,
			},
		},
		{
			env:  map[string]string{"VERBOSE": "false", "BUFFER_SIZE": "2048", "DUMP_CODES": "1"},
			args: []string{"-config", path},
			expect: Configuration{
				File: path, FileLoaded: true, Verbose: false, Stats: true,
				Debug: Debug{DumpTree: true, DumpCodes: true}, BufferSize: 2048,
			},
		},
		{
			env:  map[string]string{"BUFFER_SIZE": "2048", "STATS": "false"},
			args: []string{"-config", path, "-buffer-size", "4096", "-stats", "-dump-tree=false"},
			expect: Configuration{
				File: path, FileLoaded: true, Verbose: true, Stats: true,
				Debug: Debug{}, BufferSize: 4096,
			},
		},
		{
			env:  map[string]string{"CONFIG": path, "FORCE": "true"},
			args: nil,
			expect: Configuration{
				File: path, FileLoaded: true, Verbose: true, Stats: true, Force: true,
				Debug: Debug{DumpTree: true}, BufferSize: 1024,
			},
		},
	}

	for i, t := range tests {
		c.Logf("test %d: env %v args %v", i, t.env, t.args)
		for key, val := range t.env {
			os.Setenv(envPrefix+key, val)
		}
		config, err := Load(newFlagSet(), t.args)
		for key := range t.env {
			os.Unsetenv(envPrefix + key)
		}
		c.Assert(err, gc.IsNil)
		c.Check(config, gc.DeepEquals, t.expect)
	}
}

func (s *ConfigSuite) TestErrors(c *gc.C) {
	tests := []struct {
		file        string
		args        []string
		expectError string
	}{
		{file: "bogus = 1\n", expectError: `config file ".*": unknown keys: bogus`},
		{file: "verbose = \"yes\"\n", expectError: `config file ".*": .*`},
		{file: "buffer_size = 0\n", expectError: `buffer-size must be positive, got 0`},
		{args: []string{"-no-such-flag"}, expectError: `flag provided but not defined: -no-such-flag`},
		{args: []string{"-buffer-size", "lots"}, expectError: `invalid value "lots" for flag -buffer-size: .*`},
	}

	for i, t := range tests {
		c.Logf("test %d: %q %v", i, t.file, t.args)
		args := t.args
		if t.file != "" {
			args = append([]string{"-config", s.writeFile(c, t.file)}, args...)
		}
		_, err := Load(newFlagSet(), args)
		c.Check(err, gc.ErrorMatches, t.expectError)
	}
}

func (s *ConfigSuite) TestBadEnvironment(c *gc.C) {
	os.Setenv(envPrefix+"VERBOSE", "maybe")
	_, err := Load(newFlagSet(), nil)
	c.Check(err, gc.ErrorMatches, `environment HUFFCODEC_VERBOSE: .*`)
}

func (s *ConfigSuite) TestEnvironmentIgnoresCallerFlags(c *gc.C) {
	os.Setenv(envPrefix+"VERSION", "true")
	os.Setenv(envPrefix+"STATS", "true")
	fs := newFlagSet()
	version := fs.Bool("version", false, "print version")
	config, err := Load(fs, nil)
	c.Assert(err, gc.IsNil)
	c.Check(*version, gc.Equals, false)
	c.Check(config.Stats, gc.Equals, true)

	fs = newFlagSet()
	version = fs.Bool("version", false, "print version")
	_, err = Load(fs, []string{"-version"})
	c.Assert(err, gc.IsNil)
	c.Check(*version, gc.Equals, true)
}

func (s *ConfigSuite) TestWriteExample(c *gc.C) {
	var buf bytes.Buffer
	c.Assert(WriteExample(&buf), gc.IsNil)

	path := s.writeFile(c, buf.String())
	config, err := Load(newFlagSet(), []string{"-config", path})
	c.Assert(err, gc.IsNil)

	expect := Defaults()
	expect.File = path
	expect.FileLoaded = true
	c.Check(config, gc.DeepEquals, expect)
}
