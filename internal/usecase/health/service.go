package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the remote engine is down but search still serves
	// from the local index.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status    Status
	Checks    map[string]CheckResult
	LocalDocs int
}

// Service coordinates health checks.
type Service struct {
	db    DBPinger
	local IndexCounter
}

// New creates a Service.
func New(db DBPinger, local IndexCounter) *Service {
	return &Service{db: db, local: local}
}

// Check runs health checks against all components. A dead engine degrades the
// service instead of failing it: the local index keeps queries alive.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["engine"] = CheckError
	} else {
		checks["engine"] = CheckOK
	}
	checks["local_index"] = CheckOK

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{
		Status:    status,
		Checks:    checks,
		LocalDocs: s.local.DocCount(),
	}
}
