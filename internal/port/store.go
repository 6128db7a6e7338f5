package port

import "readscore/internal/domain"

type ReportStore interface {
	PutReport(report domain.Report) error

	GetReport(id string) (domain.Report, error)

	// GetReportBySource returns the latest report stored for a source path.
	GetReportBySource(source string) (domain.Report, error)

	ListReports() ([]domain.Report, error)

	DeleteReport(id string) error

	Close() error
}
