package driver

import (
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/project"
	"github.com/woupiestek/rlox/internal/source"
)

// CheckOptions configures a directory check.
type CheckOptions struct {
	MaxDiagnostics int
	Jobs           int
	Cache          *DiskCache        // nil disables caching
	Events         chan<- CheckEvent // nil disables progress events
}

// CheckStatus tracks where a file is in the check pipeline.
type CheckStatus uint8

const (
	StatusQueued CheckStatus = iota
	StatusCompiling
	StatusDone
	StatusError
	StatusCached
)

// CheckEvent reports one file's status transition during a check. The
// channel is never closed by the checker; callers close it after CheckFiles
// returns.
type CheckEvent struct {
	Path   string
	Status CheckStatus
}

// FileReport is one file's outcome within a CheckResult.
type FileReport struct {
	Path      string
	Ok        bool
	FromCache bool
	FileSet   *source.FileSet
	Bag       *diag.Bag
}

// CheckResult aggregates a directory check.
type CheckResult struct {
	Reports []FileReport
	Failed  int
}

// CheckDir compiles every .lox file under dir in parallel, without running
// anything. Results come back sorted by path; cached verdicts are reused
// when the file content digest matches.
func CheckDir(dir string, opts CheckOptions) (*CheckResult, error) {
	paths, err := ListLoxFiles(dir)
	if err != nil {
		return nil, err
	}
	return CheckFiles(paths, opts)
}

// ListLoxFiles walks dir and returns the sorted paths of every .lox file.
func ListLoxFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".lox" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// CheckFiles compiles the given files in parallel. Report order matches the
// input path order.
func CheckFiles(paths []string, opts CheckOptions) (*CheckResult, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	reports := make([]FileReport, len(paths))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			emitEvent(opts.Events, path, StatusCompiling)
			report, err := checkFile(path, opts)
			if err != nil {
				emitEvent(opts.Events, path, StatusError)
				return err
			}
			emitEvent(opts.Events, path, reportStatus(report))
			mu.Lock()
			reports[i] = report
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &CheckResult{Reports: reports}
	for i := range reports {
		if !reports[i].Ok {
			result.Failed++
		}
	}
	return result, nil
}

func emitEvent(events chan<- CheckEvent, path string, status CheckStatus) {
	if events != nil {
		events <- CheckEvent{Path: path, Status: status}
	}
}

func reportStatus(report FileReport) CheckStatus {
	switch {
	case !report.Ok:
		return StatusError
	case report.FromCache:
		return StatusCached
	default:
		return StatusDone
	}
}

// checkFile compiles one file against a throwaway session, consulting the
// cache first. Each file gets its own heap so checks are independent.
func checkFile(path string, opts CheckOptions) (FileReport, error) {
	fileSet := source.NewFileSet()
	fileID, err := fileSet.Load(path)
	if err != nil {
		return FileReport{}, err
	}
	file := fileSet.Get(fileID)
	key := project.Digest(file.Hash)

	if opts.Cache != nil {
		var payload CheckPayload
		if hit, err := opts.Cache.Get(key, &payload); err == nil && hit {
			return FileReport{
				Path:      path,
				Ok:        payload.Ok,
				FromCache: true,
				FileSet:   fileSet,
				Bag:       inflateBag(fileID, &payload, opts.MaxDiagnostics),
			}, nil
		}
	}

	session := NewSession(SessionOptions{MaxDiagnostics: opts.MaxDiagnostics})
	_, compileErr := session.CompileFile(path)

	report := FileReport{Path: path, Ok: compileErr == nil, FileSet: session.Files}
	var cerr *CompileError
	switch {
	case compileErr == nil:
		report.Bag = diag.NewBag(1)
	case errors.As(compileErr, &cerr):
		report.Bag = cerr.Bag
	default:
		return FileReport{}, compileErr
	}

	if opts.Cache != nil {
		// Cache write failures never fail the check.
		_ = opts.Cache.Put(key, deflateBag(path, report.Ok, report.Bag))
	}
	return report, nil
}

func deflateBag(path string, ok bool, bag *diag.Bag) *CheckPayload {
	payload := &CheckPayload{
		Schema: diskCacheSchemaVersion,
		Path:   path,
		Ok:     ok,
	}
	for _, d := range bag.Items() {
		payload.Diags = append(payload.Diags, CachedDiag{
			Code:     uint16(d.Code),
			Severity: uint8(d.Severity),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Message:  d.Message,
		})
	}
	return payload
}

func inflateBag(fileID source.FileID, payload *CheckPayload, maxDiagnostics int) *diag.Bag {
	if maxDiagnostics <= 0 {
		maxDiagnostics = DefaultMaxDiagnostics
	}
	bag := diag.NewBag(maxDiagnostics)
	for _, d := range payload.Diags {
		bag.Add(diag.Diagnostic{
			Severity: diag.Severity(d.Severity),
			Code:     diag.Code(d.Code),
			Message:  d.Message,
			Primary:  source.Span{File: fileID, Start: d.Start, End: d.End},
		})
	}
	return bag
}
