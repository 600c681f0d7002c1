package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"tracegen/internal/buildlog"
)

const (
	configFileName = "tracegen.toml"
	envInputPath   = "TRACE_INPUT_PATH"
	envJobs        = "TRACEGEN_JOBS"
)

type fileConfig struct {
	Input string        `toml:"input"`
	Jobs  int           `toml:"jobs"`
	Cache bool          `toml:"cache"`
	Gen   genFileConfig `toml:"gen"`
}

type genFileConfig struct {
	TraceType string `toml:"trace_type"`
	Output    string `toml:"output"`
}

// settings are the effective options of a run: flag, then environment,
// then config file, then defaults.
type settings struct {
	ConfigPath string
	Input      string
	Jobs       int
	Cache      bool
	TraceType  string
	Output     string
}

func findConfigFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfigFile decodes path into s, touching only the keys it defines.
// Relative paths are taken from the directory holding the file.
func loadConfigFile(path string, s *settings) error {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	root := filepath.Dir(path)
	rel := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, filepath.FromSlash(p))
	}
	if meta.IsDefined("input") {
		s.Input = rel(strings.TrimSpace(cfg.Input))
	}
	if meta.IsDefined("jobs") {
		if cfg.Jobs < 0 {
			return fmt.Errorf("%s: jobs must not be negative", path)
		}
		s.Jobs = cfg.Jobs
	}
	if meta.IsDefined("cache") {
		s.Cache = cfg.Cache
	}
	if meta.IsDefined("gen", "trace_type") {
		s.TraceType = strings.TrimSpace(cfg.Gen.TraceType)
	}
	if meta.IsDefined("gen", "output") {
		s.Output = rel(strings.TrimSpace(cfg.Gen.Output))
	}
	s.ConfigPath = path
	return nil
}

func resolveSettings(cmd *cobra.Command) (settings, error) {
	s := settings{Input: buildlog.DefaultPath, Cache: true}
	pf := cmd.Root().PersistentFlags()

	configPath, err := pf.GetString("config")
	if err != nil {
		return s, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath == "" {
		found, ok, err := findConfigFile(".")
		if err != nil {
			return s, err
		}
		if ok {
			configPath = found
		}
	}
	if configPath != "" {
		if err := loadConfigFile(configPath, &s); err != nil {
			return s, err
		}
	}

	if v, ok := os.LookupEnv(envInputPath); ok && strings.TrimSpace(v) != "" {
		s.Input = v
	}
	if v, ok := os.LookupEnv(envJobs); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return s, fmt.Errorf("invalid %s value %q", envJobs, v)
		}
		s.Jobs = n
	}

	if pf.Changed("input") {
		if s.Input, err = pf.GetString("input"); err != nil {
			return s, err
		}
	}
	if pf.Changed("jobs") {
		if s.Jobs, err = pf.GetInt("jobs"); err != nil {
			return s, err
		}
		if s.Jobs < 0 {
			return s, fmt.Errorf("--jobs must not be negative")
		}
	}
	noCache, err := pf.GetBool("no-cache")
	if err != nil {
		return s, err
	}
	if noCache {
		s.Cache = false
	}
	return s, nil
}
