package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/woupiestek/rlox/internal/driver"
	"github.com/woupiestek/rlox/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [dir]",
	Short: "Compile every .lox file under a directory without running",
	Long:  `Check compiles each .lox file in parallel and reports diagnostics, reusing cached verdicts for unchanged files`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "number of parallel compile jobs (0 = NumCPU)")
	checkCmd.Flags().Bool("no-cache", false, "skip the on-disk verdict cache")
	checkCmd.Flags().Bool("clear-cache", false, "drop all cached verdicts first")
	checkCmd.Flags().Bool("no-progress", false, "disable the live progress view")
	checkCmd.Flags().Bool("timings", false, "print phase timings to stderr")
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	noProgress, err := cmd.Flags().GetBool("no-progress")
	if err != nil {
		return fmt.Errorf("failed to get no-progress flag: %w", err)
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	if jobs <= 0 {
		jobs = cfg.Check.Jobs
	}

	var cache *driver.DiskCache
	if cfg.Check.Cache && !noCache {
		// A broken cache dir downgrades to uncached checking.
		if c, err := driver.OpenDiskCache("rlox"); err == nil {
			cache = c
		}
	}
	if clearCache && cache != nil {
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}

	timer := observ.NewTimer()
	walkPhase := timer.Begin("walk")
	paths, err := driver.ListLoxFiles(dir)
	if err != nil {
		return err
	}
	timer.End(walkPhase, fmt.Sprintf("%d files", len(paths)))

	opts := driver.CheckOptions{
		MaxDiagnostics: maxDiagnostics(cmd, cfg),
		Jobs:           jobs,
		Cache:          cache,
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	compilePhase := timer.Begin("compile")
	var result *driver.CheckResult
	if !noProgress && !quiet && isTerminal(os.Stdout) {
		result, err = runCheckWithUI("check "+dir, paths, opts)
	} else {
		result, err = driver.CheckFiles(paths, opts)
	}
	if err != nil {
		return err
	}
	timer.End(compilePhase, fmt.Sprintf("%d failed", result.Failed))

	cached := 0
	for i := range result.Reports {
		report := &result.Reports[i]
		if report.FromCache {
			cached++
		}
		if !report.Ok {
			printDiagnostics(cmd, cfg, report.Bag, report.FileSet)
		}
	}

	if !quiet {
		fmt.Printf("checked %d files: %d failed (%d cached)\n",
			len(result.Reports), result.Failed, cached)
	}
	if timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if result.Failed > 0 {
		cleanup()
		os.Exit(exitCompileError)
	}
	return nil
}
