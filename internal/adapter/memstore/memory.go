package memstore

import (
	"fmt"
	"sort"
	"sync"

	"readscore/internal/domain"
	"readscore/internal/port"
)

// MemoryStore keeps reports in process memory. serve uses it when started
// without --history.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]domain.Report
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[string]domain.Report),
	}
}

func (s *MemoryStore) PutReport(report domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = report
	return nil
}

func (s *MemoryStore) GetReport(id string) (domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return domain.Report{}, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	return report, nil
}

func (s *MemoryStore) GetReportBySource(source string) (domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest domain.Report
	found := false
	for _, r := range s.reports {
		if r.Source == source && (!found || r.CreatedAt.After(latest.CreatedAt)) {
			latest = r
			found = true
		}
	}
	if !found {
		return domain.Report{}, fmt.Errorf("report for %s: %w", source, domain.ErrNotFound)
	}
	return latest, nil
}

// ListReports returns all reports, newest first.
func (s *MemoryStore) ListReports() ([]domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reports := make([]domain.Report, 0, len(s.reports))
	for _, r := range s.reports {
		reports = append(reports, r)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

func (s *MemoryStore) DeleteReport(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reports, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

var _ port.ReportStore = (*MemoryStore)(nil)
