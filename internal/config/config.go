package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and conversion settings.
type Config struct {
	// Paths
	ModelDir   string `json:"model_dir"`
	TextureDir string `json:"texture_dir"`
	OutputDir  string `json:"output_dir"`

	// Conversion settings
	Workers       int  `json:"workers"`
	CompressAnims bool `json:"compress_anims"`

	// Atlas settings
	AtlasSize   int  `json:"atlas_size"`
	WebPPreview bool `json:"webp_preview"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.ModelDir != "" {
		c.ModelDir = flags.ModelDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Compress {
		c.CompressAnims = true
	}

	// Textures live next to models unless told otherwise
	if c.TextureDir == "" && c.ModelDir != "" {
		c.TextureDir = c.ModelDir
	} else if c.TextureDir != "" && !filepath.IsAbs(c.TextureDir) && c.ModelDir != "" {
		c.TextureDir = filepath.Join(c.ModelDir, c.TextureDir)
	}

	if c.OutputDir == "" {
		c.OutputDir = "out"
	}

	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.AtlasSize <= 0 {
		c.AtlasSize = 256
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	ModelDir  string
	OutputDir string
	Workers   int
	Compress  bool
}
