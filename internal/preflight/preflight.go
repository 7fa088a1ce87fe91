package preflight

import (
	"context"
	"fmt"
	"strings"

	"csub/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the directory and tool checks for cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("State directory", cfg.Paths.StateDir)}
	if strings.TrimSpace(cfg.Paths.OutputDir) != "" {
		results = append(results, CheckOutputDirectory("Output directory", cfg.Paths.OutputDir))
	}
	for _, status := range CheckSystemDeps(ctx, cfg) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Path
			if status.Version != "" {
				result.Detail = fmt.Sprintf("%s (%s)", status.Path, status.Version)
			}
		}
		results = append(results, result)
	}
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
