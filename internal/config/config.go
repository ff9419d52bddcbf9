package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"lakeguard/internal/digest"
	"lakeguard/internal/utils"
)

var (
	DefaultRoot       = "data-lake"
	DefaultCategories = []string{"logs", "metadata", "processed", "raw"}
	DefaultExtensions = []string{"csv", "parquet", "feather", "json", "txt"}
	DefaultIgnoreFile = ".lakeguardignore"
)

// Config carries everything the integrity monitor needs. It is built once at
// startup (flags > env > config file) and passed down explicitly.
type Config struct {
	Root       string   `mapstructure:"root" yaml:"root"`
	Categories []string `mapstructure:"categories" yaml:"categories"`
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
	Algorithm  string   `mapstructure:"algorithm" yaml:"algorithm"`
	Workers    int      `mapstructure:"workers" yaml:"workers"`
	IgnoreFile string   `mapstructure:"ignore_file" yaml:"ignore_file"`
	Path       string   `mapstructure:"-" yaml:"-"`
}

func Default() *Config {
	return &Config{
		Root:       DefaultRoot,
		Categories: DefaultCategories,
		Extensions: DefaultExtensions,
		Algorithm:  string(digest.SHA256),
		Workers:    runtime.NumCPU(),
		IgnoreFile: DefaultIgnoreFile,
	}
}

// Save writes the config as YAML so a fresh checkout carries its lake
// settings with it.
func (c *Config) Save(path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func (c *Config) Validate() error {
	root, err := utils.ResolvePath(c.Root)
	if err != nil {
		return fmt.Errorf("invalid root: %w", err)
	}
	c.Root = root

	if len(c.Categories) == 0 {
		c.Categories = DefaultCategories
	}
	if len(c.Extensions) == 0 {
		c.Extensions = DefaultExtensions
	}
	if c.Algorithm == "" {
		c.Algorithm = string(digest.SHA256)
	}
	if !digest.Algorithm(c.Algorithm).Valid() {
		return fmt.Errorf("unsupported hash algorithm %q", c.Algorithm)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.IgnoreFile == "" {
		c.IgnoreFile = DefaultIgnoreFile
	}
	return nil
}

// HashAlgorithm returns the validated digest algorithm.
func (c *Config) HashAlgorithm() digest.Algorithm {
	return digest.Algorithm(c.Algorithm)
}
