package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wow-m2-converter/internal/batch"
	"wow-m2-converter/internal/config"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	modelDir := flag.String("models", "", "Directory to scan for .m2 files")
	outputDir := flag.String("output", "", "Output directory (default: out)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	testN := flag.Int("test", 0, "Convert only first N models for testing")
	compress := flag.Bool("compress", false, "Compress animation blobs with zstd")
	showWarnings := flag.Bool("warnings", false, "Print per-model conversion warnings")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		ModelDir:  *modelDir,
		OutputDir: *outputDir,
		Workers:   *workers,
		Compress:  *compress,
	})

	if cfg.ModelDir == "" {
		fmt.Fprintln(os.Stderr, "Error: no model directory. Use -models flag or config.json.")
		os.Exit(1)
	}

	tasks, err := collectTasks(cfg.ModelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", cfg.ModelDir, err)
		os.Exit(1)
	}

	// Limit for testing
	if *testN > 0 && *testN < len(tasks) {
		tasks = tasks[:*testN]
	}

	if len(tasks) == 0 {
		fmt.Println("No models to convert.")
		os.Exit(0)
	}

	mode := ""
	if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("M2 Model Converter%s\n", mode)
	fmt.Printf("Models: %d, Workers: %d\n", len(tasks), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir:     cfg.OutputDir,
		Workers:       cfg.Workers,
		CompressAnims: cfg.CompressAnims,
	}

	results := batch.Run(batchCfg, tasks)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed, warned := 0, 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
			if len(r.Warnings) > 0 {
				warned++
				if *showWarnings {
					for _, w := range r.Warnings {
						fmt.Printf("  %s: %s\n", r.Name, w)
					}
				}
			}
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Converted: %d/%d", success, len(tasks))
	if warned > 0 {
		fmt.Printf(" (%d with warnings)", warned)
	}
	fmt.Println()

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// collectTasks walks dir recursively and returns a task per .m2 file.
// Output names are the file stems; a duplicate stem in another
// subdirectory gets the path baked in to keep names unique.
func collectTasks(dir string) ([]batch.Task, error) {
	var tasks []batch.Task
	seen := make(map[string]bool)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".m2") {
			return nil
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if seen[name] {
			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				rel = path
			}
			rel = strings.TrimSuffix(rel, filepath.Ext(rel))
			name = strings.ReplaceAll(rel, string(filepath.Separator), "_")
		}
		seen[name] = true

		tasks = append(tasks, batch.Task{Name: name, Path: path})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
