package memstore

import (
	"errors"
	"testing"
	"time"

	"readscore/internal/domain"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()

	older := domain.Report{ID: "a", Source: "doc.txt", CreatedAt: now.Add(-time.Minute)}
	newer := domain.Report{ID: "b", Source: "doc.txt", CreatedAt: now}
	other := domain.Report{ID: "c", Source: "other.txt", CreatedAt: now.Add(-time.Hour)}
	for _, r := range []domain.Report{older, newer, other} {
		if err := s.PutReport(r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.GetReportBySource("doc.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "b" {
		t.Errorf("expected latest report b, got %s", got.ID)
	}

	list, _ := s.ListReports()
	if len(list) != 3 || list[0].ID != "b" || list[2].ID != "c" {
		t.Errorf("expected newest-first order, got %v", list)
	}

	if err := s.DeleteReport("b"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetReport("b"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetReportBySource("missing.txt"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
