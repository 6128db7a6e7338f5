package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"
	"readscore/internal/domain"
)

var (
	bucketReports = []byte("reports")
	bucketSources = []byte("sources")
	bucketMeta    = []byte("meta")
)

// BoltStore keeps the report history in a bbolt database.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketReports, bucketSources, bucketMeta}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

// PutReport stores a report and makes it the latest one for its source.
func (s *BoltStore) PutReport(report domain.Report) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(report)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketReports).Put([]byte(report.ID), data); err != nil {
			return err
		}
		if report.Source == "" {
			return nil
		}
		return tx.Bucket(bucketSources).Put([]byte(report.Source), []byte(report.ID))
	})
}

func (s *BoltStore) GetReport(id string) (domain.Report, error) {
	var report domain.Report
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		report, err = getReport(tx, id)
		return err
	})
	return report, err
}

func (s *BoltStore) GetReportBySource(source string) (domain.Report, error) {
	var report domain.Report
	err := s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketSources).Get([]byte(source))
		if id == nil {
			return fmt.Errorf("report for %s: %w", source, domain.ErrNotFound)
		}
		var err error
		report, err = getReport(tx, string(id))
		return err
	})
	return report, err
}

func getReport(tx *bbolt.Tx, id string) (domain.Report, error) {
	var report domain.Report
	data := tx.Bucket(bucketReports).Get([]byte(id))
	if data == nil {
		return report, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return report, nil
}

// ListReports returns all reports, newest first.
func (s *BoltStore) ListReports() ([]domain.Report, error) {
	var reports []domain.Report
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketReports).ForEach(func(k, v []byte) error {
			var report domain.Report
			if err := json.Unmarshal(v, &report); err != nil {
				return fmt.Errorf("failed to decode report %s: %w", k, err)
			}
			reports = append(reports, report)
			return nil
		})
	})
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, err
}

// DeleteReport removes a report. When the source index points to it, the
// index moves to the newest remaining report for that source.
func (s *BoltStore) DeleteReport(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		reports := tx.Bucket(bucketReports)
		data := reports.Get([]byte(id))
		if data == nil {
			return nil
		}
		if err := reports.Delete([]byte(id)); err != nil {
			return err
		}

		var report domain.Report
		if err := json.Unmarshal(data, &report); err != nil || report.Source == "" {
			return nil
		}
		sources := tx.Bucket(bucketSources)
		if current := sources.Get([]byte(report.Source)); string(current) != id {
			return nil
		}
		if next, ok := latestForSource(tx, report.Source); ok {
			return sources.Put([]byte(report.Source), []byte(next))
		}
		return sources.Delete([]byte(report.Source))
	})
}

func latestForSource(tx *bbolt.Tx, source string) (string, bool) {
	var latest domain.Report
	found := false
	_ = tx.Bucket(bucketReports).ForEach(func(k, v []byte) error {
		var r domain.Report
		if err := json.Unmarshal(v, &r); err != nil || r.Source != source {
			return nil
		}
		if !found || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
			found = true
		}
		return nil
	})
	return latest.ID, found
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
