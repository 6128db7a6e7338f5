package port

import (
	"time"

	"readscore/internal/domain"
)

// Metrics records analysis and external call outcomes.
type Metrics interface {
	ObserveAnalysis(result *domain.Result, err error)

	ObserveExternalCall(service string, duration time.Duration, err error)
}
