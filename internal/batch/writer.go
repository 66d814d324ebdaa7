package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DataDog/zstd"

	"wow-m2-converter/internal/convert"
)

// WriteArtifacts publishes the mesh, manifest and animation blob for one
// model. Each file is written to a temp path first and renamed into
// place, so a crashed run never leaves a partial artifact behind.
func WriteArtifacts(cfg Config, name string, art *convert.Artifacts) error {
	manifest, err := convert.MarshalManifest(art.Manifest)
	if err != nil {
		return fmt.Errorf("%s: marshal manifest: %w", name, err)
	}

	if err := writeFile(cfg.OutputDir, name+".mesh", art.Mesh); err != nil {
		return err
	}
	if err := writeFile(cfg.OutputDir, name+".json", manifest); err != nil {
		return err
	}

	anim := art.Anim
	animName := name + ".anim"
	if cfg.CompressAnims {
		compressed, err := zstd.Compress(nil, anim)
		if err != nil {
			return fmt.Errorf("%s: compress anim: %w", name, err)
		}
		anim = compressed
		animName += ".zst"
	}
	return writeFile(cfg.OutputDir, animName, anim)
}

func writeFile(dir, name string, data []byte) error {
	final := filepath.Join(dir, name)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish %s: %w", name, err)
	}
	return nil
}
