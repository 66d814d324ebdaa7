package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"wow-m2-converter/internal/atlas"
	"wow-m2-converter/internal/texture"
)

// Recipe describes one atlas build: a base skin plus ordered overlays.
type Recipe struct {
	Base     string          `json:"base"`
	Overlays []RecipeOverlay `json:"overlays"`
}

type RecipeOverlay struct {
	Image  string `json:"image"`
	Region string `json:"region"`
	Layer  string `json:"layer"`
}

func main() {
	recipePath := flag.String("recipe", "", "Path to recipe.json")
	basePath := flag.String("base", "", "Base skin image (overrides recipe)")
	outPath := flag.String("out", "atlas.tex", "Output .tex path")
	webpPath := flag.String("webp", "", "Optional WebP preview path")
	texDir := flag.String("textures", "", "Texture directory; recipe entries may then name stems instead of paths")

	flag.Parse()

	if *recipePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: composite -recipe recipe.json [-base skin.png] [-out atlas.tex] [-webp preview.webp]")
		os.Exit(2)
	}

	recipe, err := loadRecipe(*recipePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *basePath != "" {
		recipe.Base = *basePath
	}
	if recipe.Base == "" {
		fmt.Fprintln(os.Stderr, "Error: no base image in recipe or -base flag")
		os.Exit(1)
	}

	var cache *texture.Cache
	if *texDir != "" {
		index := texture.BuildIndex(*texDir)
		fmt.Printf("Textures: %d indexed\n", index.Len())
		cache = texture.NewCache(index)
	}

	base, err := loadOverlayImage(cache, recipe.Base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	overlays, err := buildOverlays(cache, recipe.Overlays)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Dressing order: lower layers first so armor covers skin
	sort.SliceStable(overlays, func(i, j int) bool {
		return overlays[i].Layer < overlays[j].Layer
	})

	result, err := atlas.Composite(base, overlays)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := writeTex(*outPath, result); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Atlas: %s (%dx%d, %d overlays)\n",
		*outPath, result.Bounds().Dx(), result.Bounds().Dy(), len(overlays))

	if *webpPath != "" {
		if err := writePreview(*webpPath, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Preview: %s\n", *webpPath)
	}
}

func loadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("recipe: %w", err)
	}
	var r Recipe
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("recipe: parse %s: %w", path, err)
	}
	return &r, nil
}

// loadOverlayImage resolves name through the texture index when one is
// available and the name is a bare stem; otherwise it is a direct path.
func loadOverlayImage(cache *texture.Cache, name string) (*image.NRGBA, error) {
	if cache != nil && filepath.Ext(name) == "" {
		if img := cache.Resolve(name); img != nil {
			return img, nil
		}
		return nil, fmt.Errorf("texture %q not found in index", name)
	}
	return texture.LoadImage(name)
}

func buildOverlays(cache *texture.Cache, entries []RecipeOverlay) ([]atlas.Overlay, error) {
	overlays := make([]atlas.Overlay, 0, len(entries))
	for _, e := range entries {
		region, err := atlas.RegionByName(e.Region)
		if err != nil {
			return nil, err
		}
		layer := atlas.LayerSkin
		if e.Layer != "" {
			layer, err = atlas.LayerByName(e.Layer)
			if err != nil {
				return nil, err
			}
		}
		img, err := loadOverlayImage(cache, e.Image)
		if err != nil {
			return nil, err
		}
		overlays = append(overlays, atlas.Overlay{
			Image:  img,
			Region: region,
			Layer:  layer,
			Name:   strings.TrimSuffix(filepath.Base(e.Image), filepath.Ext(e.Image)),
		})
	}
	return overlays, nil
}

func writeTex(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := atlas.WriteTex(f, img); err != nil {
		return err
	}
	return f.Close()
}

func writePreview(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := atlas.WritePreview(f, img); err != nil {
		return err
	}
	return f.Close()
}
