package sickpay

import (
	"context"
	"time"

	"github.com/warp/vacancy-engine/generic"
)

// Run is a persisted calculation: the batch it was computed from and the
// post-processed segments.
type Run struct {
	ID        string
	Label     string
	CreatedAt time.Time
	InputJSON string // batch document as received
	Segments  []Segment
}

// RunInfo is a run without its segments, for listings.
type RunInfo struct {
	ID           string
	Label        string
	CreatedAt    time.Time
	SegmentCount int
}

// Store persists the holiday calendar and calculation runs. The computation
// itself never touches a Store; inputs are loaded before Compute is called.
//
// Implementations:
//   - store/sqlite: SQLite database
//   - store/memory: in-memory, for tests and ephemeral servers
type Store interface {
	SaveHoliday(ctx context.Context, h generic.Holiday) error
	DeleteHoliday(ctx context.Context, date generic.TimePoint) error
	ListHolidays(ctx context.Context) ([]generic.Holiday, error)

	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context) ([]RunInfo, error)

	// DeleteRunsBefore removes runs created before cutoff and reports how many.
	DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// LoadCalendar builds the holiday calendar currently held by the store.
func LoadCalendar(ctx context.Context, s Store) (*generic.Calendar, error) {
	hs, err := s.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}
	return generic.NewCalendarFromHolidays(hs), nil
}
