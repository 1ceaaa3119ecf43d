// Package shared holds the setup common to the test and coverage phases.
package shared

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/patsy/vos"
	"github.com/fatih/color"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

// ConfigFile is the optional per-project config, read from the working
// directory.
const ConfigFile = ".piocov.yml"

// Config holds the settings that can come from the config file or PIOCOV_*
// environment variables. Command line flags override both.
type Config struct {
	Environment string  `yaml:"environment" env:"PIOCOV_ENV" env-default:"native"`
	Title       string  `yaml:"title" env:"PIOCOV_TITLE" env-default:"Test Coverage"`
	Output      string  `yaml:"output" env:"PIOCOV_OUTPUT"`
	Min         float64 `yaml:"min" env:"PIOCOV_MIN"`
	Pio         string  `yaml:"pio" env:"PIOCOV_PIO" env-default:"pio"`
	Lcov        string  `yaml:"lcov" env:"PIOCOV_LCOV" env-default:"lcov"`
	Genhtml     string  `yaml:"genhtml" env:"PIOCOV_GENHTML" env-default:"genhtml"`
}

// LoadConfig reads the config file from dir if one exists, then applies
// environment variable overrides and defaults.
func LoadConfig(dir string) (Config, error) {
	var cfg Config
	fpath := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(fpath); err == nil {
		if err := cleanenv.ReadConfig(fpath, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "Error reading config %s", fpath)
		}
		return cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "Error reading config from environment")
	}
	return cfg, nil
}

// Setup is built once at startup and passed to both phases.
type Setup struct {
	Env      vos.Env
	Verbose  bool
	TestEnv  string
	Title    string
	Output   string
	Min      float64
	TestArgs []string
	Pio      string
	Lcov     string
	Genhtml  string

	// Derived by Parse.
	ProjectDir   string
	BuildDir     string
	TestDir      string
	CoverageDir  string
	InfoFile     string
	FilteredFile string
	HTMLDir      string
}

// Parse resolves the project dir from args and derives the paths both
// phases use. Derivation is pure: identical inputs give identical paths.
func (s *Setup) Parse(args []string) error {
	var dir string
	switch len(args) {
	case 0:
		var err error
		dir, err = s.Env.Getwd()
		if err != nil {
			return errors.Wrap(err, "Error getting working dir")
		}
	case 1:
		dir = args[0]
	default:
		return errors.Errorf("Expected a single project dir, got %q", strings.Join(args, " "))
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.Wrapf(err, "Error resolving project dir %s", dir)
	}
	s.ProjectDir = abs

	if s.TestEnv == "" {
		s.TestEnv = "native"
	}
	if s.Title == "" {
		s.Title = "Test Coverage"
	}
	if s.Pio == "" {
		s.Pio = "pio"
	}
	if s.Lcov == "" {
		s.Lcov = "lcov"
	}
	if s.Genhtml == "" {
		s.Genhtml = "genhtml"
	}

	s.BuildDir = filepath.Join(s.ProjectDir, ".pio", "build", s.TestEnv)
	s.TestDir = filepath.Join(s.BuildDir, "test")
	if s.Output != "" {
		out, err := filepath.Abs(s.Output)
		if err != nil {
			return errors.Wrapf(err, "Error resolving output dir %s", s.Output)
		}
		s.CoverageDir = out
	} else {
		s.CoverageDir = filepath.Join(s.BuildDir, "coverage")
	}
	s.InfoFile = filepath.Join(s.CoverageDir, "coverage.info")
	s.FilteredFile = filepath.Join(s.CoverageDir, "coverage_filtered.info")
	s.HTMLDir = filepath.Join(s.CoverageDir, "html")
	return nil
}

// Banner writes a section heading.
func Banner(w io.Writer, title string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, color.CyanString(title))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}
