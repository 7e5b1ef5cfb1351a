/*
engine.go - Runs the ledger, splitter and post-processor over a batch

PURPOSE:
  Compute turns a fully materialized Input into classified segments for the
  vacant parts of every sick interval.

FLOW (per person, dates ascending):
  1. Ledger.Open(date)       -> entering karens balance
  2. splitDate               -> interval modes + vacant sub-segments
  3. Ledger.Close(longTerm)  -> leaving balance, input for the next date

  After every person is done, PostProcess merges, tags and orders the
  combined segment stream.

CONCURRENCY:
  Ledger state is partitioned by person, so persons run in parallel on an
  errgroup bounded by Workers. Each goroutine owns its Ledger and writes only
  its own result slot; results are combined after Wait.

ERRORS:
  The computation is total over well-formed input. The only error Compute
  returns is ctx.Err() when the context ends before all persons ran.
*/
package sickpay

import (
	"context"
	"runtime"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/warp/vacancy-engine/generic"
)

// Engine computes segments. The zero value is usable.
type Engine struct {
	// Workers bounds the number of persons processed concurrently.
	// Zero means runtime.NumCPU().
	Workers int

	Logger zerolog.Logger
}

// NewEngine returns an engine that logs through logger.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{Workers: runtime.NumCPU(), Logger: logger}
}

type personResult struct {
	outcomes []IntervalOutcome
	segments []Segment
	ledger   []LedgerEntry
}

// Compute runs the whole batch.
func (e *Engine) Compute(ctx context.Context, in Input) (Result, error) {
	if in.KarensEntries == nil {
		in.KarensEntries = KarensEntries{}
	}
	if in.Calendar == nil {
		in.Calendar = generic.EmptyCalendar{}
	}

	persons, byPerson := groupByPerson(in.Intervals)
	results := make([]personResult, len(persons))

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, person := range persons {
		i, person := i, person
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.computePerson(person, byPerson[person], in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Ledgers: make(map[generic.EntityID][]LedgerEntry, len(persons))}
	var segments []Segment
	for i, person := range persons {
		res.Intervals = append(res.Intervals, results[i].outcomes...)
		res.Ledgers[person] = results[i].ledger
		segments = append(segments, results[i].segments...)
	}
	res.Segments = PostProcess(segments)

	e.Logger.Debug().
		Int("persons", len(persons)).
		Int("intervals", len(in.Intervals)).
		Int("segments", len(res.Segments)).
		Msg("sick pay computation finished")
	return res, nil
}

// computePerson runs one person's date sequence on a fresh ledger.
func (e *Engine) computePerson(person generic.EntityID, intervals []SickInterval, in Input) personResult {
	ledger := NewLedger(person, in.KarensEntries, in.SickDayRanges, e.Logger)
	dates, byDate := groupByDate(intervals)

	var out personResult
	for _, date := range dates {
		longTerm := in.LongTermRanges.Contains(person, date)
		ledger.Open(date)
		outcomes, segments := splitDate(ledger, byDate[date.Key()], longTerm, in.Calendar)
		ledger.Close(longTerm)

		out.outcomes = append(out.outcomes, outcomes...)
		out.segments = append(out.segments, segments...)
	}
	out.ledger = ledger.Entries()
	return out
}

func groupByPerson(intervals []SickInterval) ([]generic.EntityID, map[generic.EntityID][]SickInterval) {
	byPerson := make(map[generic.EntityID][]SickInterval)
	for _, iv := range intervals {
		byPerson[iv.PersonID] = append(byPerson[iv.PersonID], iv)
	}
	persons := make([]generic.EntityID, 0, len(byPerson))
	for p := range byPerson {
		persons = append(persons, p)
	}
	sort.Slice(persons, func(i, j int) bool { return persons[i] < persons[j] })
	return persons, byPerson
}

func groupByDate(intervals []SickInterval) ([]generic.TimePoint, map[string][]SickInterval) {
	byDate := make(map[string][]SickInterval)
	var dates []generic.TimePoint
	for _, iv := range intervals {
		k := iv.Date.Key()
		if _, seen := byDate[k]; !seen {
			dates = append(dates, generic.DateOf(iv.Date.Time))
		}
		byDate[k] = append(byDate[k], iv)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, byDate
}
