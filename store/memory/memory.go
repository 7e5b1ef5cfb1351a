// Package memory provides an in-memory sickpay.Store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/vacancy-engine/generic"
	"github.com/warp/vacancy-engine/sickpay"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	holidays map[string]generic.Holiday
	runs     []sickpay.Run // ordered by CreatedAt
	byID     map[string]bool
}

var _ sickpay.Store = (*Memory)(nil)

func New() *Memory {
	return &Memory{
		holidays: make(map[string]generic.Holiday),
		byID:     make(map[string]bool),
	}
}

func (m *Memory) SaveHoliday(_ context.Context, h generic.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.Date.Key()] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, date generic.TimePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[date.Key()]; !ok {
		return generic.ErrHolidayNotFound
	}
	delete(m.holidays, date.Key())
	return nil
}

func (m *Memory) ListHolidays(_ context.Context) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]generic.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// SaveRun stores a copy of run.
func (m *Memory) SaveRun(_ context.Context, run sickpay.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.byID[run.ID] {
		return fmt.Errorf("run %s: %w", run.ID, generic.ErrDuplicateRun)
	}
	run.Segments = append([]sickpay.Segment(nil), run.Segments...)

	// Binary search for insertion point keeps runs ordered by creation time.
	i := sort.Search(len(m.runs), func(i int) bool {
		return m.runs[i].CreatedAt.After(run.CreatedAt)
	})
	m.runs = append(m.runs, sickpay.Run{})
	copy(m.runs[i+1:], m.runs[i:])
	m.runs[i] = run
	m.byID[run.ID] = true
	return nil
}

func (m *Memory) GetRun(_ context.Context, id string) (*sickpay.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.runs {
		if r.ID == id {
			r.Segments = append([]sickpay.Segment(nil), r.Segments...)
			return &r, nil
		}
	}
	return nil, generic.ErrRunNotFound
}

// ListRuns returns all runs, newest first.
func (m *Memory) ListRuns(_ context.Context) ([]sickpay.RunInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]sickpay.RunInfo, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0; i-- {
		r := m.runs[i]
		out = append(out, sickpay.RunInfo{
			ID:           r.ID,
			Label:        r.Label,
			CreatedAt:    r.CreatedAt,
			SegmentCount: len(r.Segments),
		})
	}
	return out, nil
}

func (m *Memory) DeleteRunsBefore(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// runs is ordered, so everything before the first run at or after cutoff goes.
	n := sort.Search(len(m.runs), func(i int) bool {
		return !m.runs[i].CreatedAt.Before(cutoff)
	})
	for _, r := range m.runs[:n] {
		delete(m.byID, r.ID)
	}
	m.runs = append([]sickpay.Run(nil), m.runs[n:]...)
	return n, nil
}
