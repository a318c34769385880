package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// RunStatus tracks progress of a parameter grid run for the /status endpoint
type RunStatus struct {
	mu          sync.RWMutex
	runID       string
	total       int
	completed   int
	current     string
	lastUpdated time.Time
	errors      []string
}

// StatusReport is the JSON body served by RunStatus
type StatusReport struct {
	Status      string    `json:"status"`
	RunID       string    `json:"run_id"`
	Timestamp   time.Time `json:"timestamp"`
	Total       int       `json:"total"`
	Completed   int       `json:"completed"`
	Current     string    `json:"current,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
	Uptime      string    `json:"uptime"`
	Errors      []string  `json:"errors,omitempty"`
}

func NewRunStatus() *RunStatus {
	return &RunStatus{
		errors: make([]string, 0),
	}
}

// Start resets the status for a new run
func (s *RunStatus) Start(runID string, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runID = runID
	s.total = total
	s.completed = 0
	s.current = ""
	s.errors = s.errors[:0]
	s.lastUpdated = time.Now()
}

// SetCurrent names the grid point being simulated
func (s *RunStatus) SetCurrent(point string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = point
	s.lastUpdated = time.Now()
}

// Complete marks one more grid point as done
func (s *RunStatus) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed++
	s.current = ""
	s.lastUpdated = time.Now()
}

// AddError records a failure
func (s *RunStatus) AddError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err.Error())
	s.lastUpdated = time.Now()
}

// Report returns a snapshot of the run
func (s *RunStatus) Report() StatusReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := "running"
	switch {
	case len(s.errors) > 0:
		status = "failed"
	case s.total > 0 && s.completed >= s.total:
		status = "complete"
	case s.runID == "":
		status = "idle"
	}

	errs := make([]string, len(s.errors))
	copy(errs, s.errors)

	return StatusReport{
		Status:      status,
		RunID:       s.runID,
		Timestamp:   time.Now(),
		Total:       s.total,
		Completed:   s.completed,
		Current:     s.current,
		LastUpdated: s.lastUpdated,
		Uptime:      time.Since(startTime).String(),
		Errors:      errs,
	}
}

func (s *RunStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := s.Report()

	w.Header().Set("Content-Type", "application/json")
	if report.Status == "failed" {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(report)
}
