package storage

import (
	"context"
	"sync"
)

// ReportStore archives generated prediction reports
type ReportStore interface {
	// SaveReport stores data under name and returns where it was written
	SaveReport(ctx context.Context, name string, data []byte) (string, error)
	Name() string
}

// MemoryReportStore keeps reports in process memory
type MemoryReportStore struct {
	mu      sync.RWMutex
	reports map[string][]byte
}

// NewMemoryReportStore creates an empty in-memory store
func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{reports: make(map[string][]byte)}
}

func (s *MemoryReportStore) SaveReport(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[name] = append([]byte(nil), data...)
	return "memory://" + name, nil
}

// Report returns a stored report
func (s *MemoryReportStore) Report(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.reports[name]
	return data, ok
}

func (s *MemoryReportStore) Name() string {
	return "memory"
}

// noopReportStore discards reports
type noopReportStore struct{}

// NewNoopReportStore returns a store that archives nothing
func NewNoopReportStore() ReportStore {
	return noopReportStore{}
}

func (noopReportStore) SaveReport(ctx context.Context, name string, data []byte) (string, error) {
	return "", nil
}

func (noopReportStore) Name() string {
	return "none"
}
