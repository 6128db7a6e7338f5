package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"readscore/internal/domain"
	"readscore/internal/port"
)

// ProgressFunc is called after each file is processed.
type ProgressFunc func(processed, total int, currentFile string)

// BatchUseCase analyzes every matching file under a directory and keeps the
// reports in the history store.
type BatchUseCase struct {
	analyze *AnalyzeUseCase
	store   port.ReportStore
	walker  port.FileWalker
	reader  port.FileReader
	workers int
}

// NewBatchUseCase creates a new batch use case.
func NewBatchUseCase(
	analyze *AnalyzeUseCase,
	store port.ReportStore,
	walker port.FileWalker,
	reader port.FileReader,
	workers int,
) *BatchUseCase {
	if workers <= 0 {
		workers = 1
	}
	return &BatchUseCase{
		analyze: analyze,
		store:   store,
		walker:  walker,
		reader:  reader,
		workers: workers,
	}
}

// BatchResult contains the results of a batch run.
type BatchResult struct {
	FilesAnalyzed int
	FilesSkipped  int
	FilesDeleted  int
	Reports       []domain.Report
	Errors        []string
}

// Run analyzes files under root. Files whose stored report is at least as
// new as the file are skipped unless force is set. Reports of files that
// no longer exist under root are removed.
func (u *BatchUseCase) Run(ctx context.Context, root string, force bool, progress ProgressFunc) (*BatchResult, error) {
	result := &BatchResult{}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	existingReports, err := u.store.ListReports()
	if err != nil {
		return nil, fmt.Errorf("failed to list existing reports: %w", err)
	}

	// Reports arrive newest first, so the first one per source is current.
	existingMap := make(map[string][]domain.Report)
	for _, r := range existingReports {
		existingMap[r.Source] = append(existingMap[r.Source], r)
	}

	seenPaths := make(map[string]bool, len(files))
	var pending []port.FileInfo
	for _, file := range files {
		seenPaths[file.Path] = true
		if existing, ok := existingMap[file.Path]; ok && !force {
			if existing[0].ModTime.Unix() >= file.ModTime {
				result.FilesSkipped++
				continue
			}
		}
		pending = append(pending, file)
	}

	var mu sync.Mutex
	processed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)

	for _, file := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := u.analyzeFile(gctx, file)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				for _, old := range existingMap[file.Path] {
					if delErr := u.store.DeleteReport(old.ID); delErr != nil {
						result.Errors = append(result.Errors, fmt.Sprintf("failed to delete old report for %s: %v", file.Path, delErr))
					}
				}
				err = u.store.PutReport(report)
			}
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to analyze %s: %v", file.Path, err))
			} else {
				result.FilesAnalyzed++
				result.Reports = append(result.Reports, report)
			}
			processed++
			if progress != nil {
				progress(processed, len(pending), file.Path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return result, err
	}
	for path, reports := range existingMap {
		if seenPaths[path] || !withinRoot(absRoot, path) {
			continue
		}
		failed := false
		for _, report := range reports {
			if err := u.store.DeleteReport(report.ID); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %v", path, err))
				failed = true
			}
		}
		if !failed {
			result.FilesDeleted++
		}
	}

	return result, nil
}

// analyzeFile reads and analyzes a single file.
func (u *BatchUseCase) analyzeFile(ctx context.Context, file port.FileInfo) (domain.Report, error) {
	content, err := u.reader.ReadFile(file.Path)
	if err != nil {
		return domain.Report{}, fmt.Errorf("failed to read file: %w", err)
	}
	return u.analyze.AnalyzeReport(ctx, file.Path, time.Unix(file.ModTime, 0), content)
}

func withinRoot(root, path string) bool {
	if !filepath.IsAbs(path) {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
