package batch

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"wow-m2-converter/internal/convert"
	"wow-m2-converter/internal/m2"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir     string
	Workers       int
	CompressAnims bool
	Quiet         bool
}

// Task is one model to convert. Each task owns its output paths
// exclusively; no two tasks may share a name.
type Task struct {
	Name string // output base name
	Path string // source .m2 path
}

// Result holds the outcome of converting one model. A failed model never
// aborts its siblings; the driver collects failures and reports them
// after the whole run.
type Result struct {
	Name     string
	Success  bool
	Error    string
	Warnings []string
}

// Run converts all models using a worker pool. Conversion of one model
// is a pure function of its input bytes; the pool just exploits that
// independence.
func Run(cfg Config, tasks []Task) []Result {
	total := len(tasks)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	done := make(chan struct{})
	if !cfg.Quiet {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						fmt.Printf("  [%d/%d] %.1f models/sec\n", p, total, float64(p)/elapsed)
					}
				}
			}
		}()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	taskChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range taskChan {
				results[idx] = processModel(cfg, tasks[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range tasks {
		taskChan <- i
	}
	close(taskChan)

	wg.Wait()
	close(done)

	return results
}

func processModel(cfg Config, task Task) Result {
	res := Result{Name: task.Name}

	data, err := os.ReadFile(task.Path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	model, err := m2.Parse(data)
	if err != nil {
		res.Error = fmt.Sprintf("%s: %v", task.Path, err)
		return res
	}

	art, err := convert.Encode(model)
	if err != nil {
		res.Error = fmt.Sprintf("%s: %v", task.Path, err)
		return res
	}

	if err := WriteArtifacts(cfg, task.Name, art); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	res.Warnings = art.Warnings
	return res
}
