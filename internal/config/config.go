package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Glyphs are the icons drawn in front of tree rows.
type Glyphs struct {
	File      string `yaml:"file"`
	Expanded  string `yaml:"expanded"`
	Collapsed string `yaml:"collapsed"`
}

type Config struct {
	Exclude    []string  `yaml:"exclude"`
	OutputFile string    `yaml:"output_file"`
	Workers    int       `yaml:"workers"`
	Log        LogConfig `yaml:"log"`
	Glyphs     Glyphs    `yaml:"glyphs"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude: []string{
			".git/",
			".svn/",
			"node_modules/",
			"vendor/",
			"__pycache__/",
			"*.o",
			"*.so",
			"*.exe",
			"bin/",
			"dist/",
			"*.tmp",
			"*.swp",
			"*.log",
			".DS_Store",
			"Thumbs.db",
		},
		Workers: runtime.NumCPU() * 2,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Glyphs: DefaultGlyphs(),
	}
}

func DefaultGlyphs() Glyphs {
	return Glyphs{
		File:      "↓",
		Expanded:  "⊟",
		Collapsed: "⊞",
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// An explicit empty exclude list means "exclude nothing"
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Glyphs.File == "" {
		c.Glyphs.File = def.Glyphs.File
	}
	if c.Glyphs.Expanded == "" {
		c.Glyphs.Expanded = def.Glyphs.Expanded
	}
	if c.Glyphs.Collapsed == "" {
		c.Glyphs.Collapsed = def.Glyphs.Collapsed
	}
}
