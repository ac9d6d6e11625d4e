package server

import (
	"sync"
	"time"

	"jobs-analytics/internal/entity"
)

// ReportState holds the last computed report for the session. The pipeline
// itself is stateless; this is the presentation layer's copy, replaced
// wholesale on each run.
type ReportState struct {
	mu         sync.RWMutex
	report     *entity.Report
	runID      string
	computedAt time.Time
}

func NewReportState() *ReportState {
	return &ReportState{}
}

// Set replaces the stored report.
func (s *ReportState) Set(r entity.Report, runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = &r
	s.runID = runID
	s.computedAt = time.Now().UTC()
}

// Get returns the stored report, its run ID and whether one exists.
func (s *ReportState) Get() (entity.Report, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return entity.Report{}, "", false
	}
	return *s.report, s.runID, true
}
