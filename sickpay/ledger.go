/*
ledger.go - Per-person karens balance carried across dates

PURPOSE:
  The waiting period (karens) is deducted once per sick spell, measured in
  time rather than days. A spell's deduction may span several intervals on
  the same date, or even several dates (an 8h karens on a night shift that
  continues the next evening). The Ledger tracks what is left of it.

STATE:
  Balance is nullable. Null means no evidence has been seen for this person
  on this date or any earlier date of the run, so the engine cannot tell
  whether the waiting period applies.

TRANSITIONS (once per date, chronological):
  1. Restart:        a karens entry exists for the date -> balance = entry
  2. Carry-over:     previous balance > 0 -> reuse it unchanged
  3. Resume-as-paid: date is inside a sick-day range whose start date has a
                     karens entry -> balance = 0
  4. Exhausted:      previous balance known and zero -> stays zero
  5. Unknown:        otherwise -> null

INVARIANTS:
  - Balance is never negative.
  - Dates must be visited in ascending order; Open panics otherwise.
  - One Ledger per person. No state is shared across persons.

AUDIT TRAIL:
  Every date appends a LedgerEntry (append-only). The trail is returned with
  the result so a reviewer can explain how a status was reached.
*/
package sickpay

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/warp/vacancy-engine/generic"
)

// =============================================================================
// BALANCE
// =============================================================================

// Balance is the remaining waiting period. The zero value is unknown.
type Balance struct {
	Remaining time.Duration
	Known     bool
}

func UnknownBalance() Balance              { return Balance{} }
func KnownBalance(d time.Duration) Balance { return Balance{Remaining: max(d, 0), Known: true} }
func (b Balance) Positive() bool           { return b.Known && b.Remaining > 0 }
func (b Balance) Exhausted() bool          { return b.Known && b.Remaining <= 0 }

func (b Balance) String() string {
	if !b.Known {
		return "unknown"
	}
	return b.Remaining.String()
}

// =============================================================================
// LEDGER ENTRIES
// =============================================================================

// Transition names the rule that produced a date's entering balance.
type Transition string

const (
	TransitionRestart   Transition = "restart"
	TransitionCarryOver Transition = "carry_over"
	TransitionResume    Transition = "resume_as_paid"
	TransitionExhausted Transition = "exhausted"
	TransitionUnknown   Transition = "unknown"
)

// LedgerEntry records one date of a person's ledger.
type LedgerEntry struct {
	Date       generic.TimePoint
	Transition Transition
	Entering   Balance
	Leaving    Balance
	KarensDay  bool // a karens entry was recorded on this date
	LongTerm   bool // date is beyond day 14
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger is the running karens state of one person.
type Ledger struct {
	person  generic.EntityID
	karens  KarensEntries
	ranges  RangeSet
	balance Balance
	last    generic.TimePoint
	open    *LedgerEntry
	entries []LedgerEntry
	log     zerolog.Logger
}

// NewLedger starts an empty (unknown) ledger for person.
func NewLedger(person generic.EntityID, karens KarensEntries, sickDayRanges RangeSet, log zerolog.Logger) *Ledger {
	return &Ledger{
		person: person,
		karens: karens,
		ranges: sickDayRanges,
		log:    log,
	}
}

// Balance returns the current balance.
func (l *Ledger) Balance() Balance { return l.balance }

// Entries returns the closed ledger entries in date order.
func (l *Ledger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Open applies the date transition and returns the entering balance.
func (l *Ledger) Open(date generic.TimePoint) Balance {
	if l.open != nil {
		panic(fmt.Sprintf("sickpay: ledger for %s: %s opened before %s was closed", l.person, date, l.open.Date))
	}
	if !l.last.IsZero() && !l.last.Before(date) {
		panic(fmt.Sprintf("sickpay: ledger for %s: date %s not after %s", l.person, date, l.last))
	}

	entry := LedgerEntry{Date: date}
	if secs, ok := l.karens.Lookup(l.person, date); ok && secs > 0 {
		entry.KarensDay = true
	}

	switch {
	case entry.KarensDay:
		secs, _ := l.karens.Lookup(l.person, date)
		l.balance = KnownBalance(secs)
		entry.Transition = TransitionRestart
	case l.balance.Positive():
		entry.Transition = TransitionCarryOver
	case l.resumes(date):
		l.balance = KnownBalance(0)
		entry.Transition = TransitionResume
	case l.balance.Known:
		l.balance = KnownBalance(0)
		entry.Transition = TransitionExhausted
	default:
		l.balance = UnknownBalance()
		entry.Transition = TransitionUnknown
	}

	entry.Entering = l.balance
	l.open = &entry
	l.log.Debug().
		Str("person", string(l.person)).
		Str("date", date.String()).
		Str("transition", string(entry.Transition)).
		Str("balance", l.balance.String()).
		Msg("karens ledger opened date")
	return l.balance
}

// resumes reports whether date continues a spell whose karens day is known.
func (l *Ledger) resumes(date generic.TimePoint) bool {
	p, ok := l.ranges.Find(l.person, date)
	if !ok {
		return false
	}
	_, ok = l.karens.Lookup(l.person, p.Start)
	return ok
}

// Consume deducts up to d from the open date's balance and returns the part
// taken. Unknown balances are left untouched.
func (l *Ledger) Consume(d time.Duration) time.Duration {
	if l.open == nil {
		panic("sickpay: Consume called without an open date")
	}
	if !l.balance.Positive() || d <= 0 {
		return 0
	}
	taken := min(d, l.balance.Remaining)
	l.balance = KnownBalance(l.balance.Remaining - taken)
	return taken
}

// Close ends the open date. The leaving balance is the next date's input.
func (l *Ledger) Close(longTerm bool) LedgerEntry {
	if l.open == nil {
		panic("sickpay: Close called without an open date")
	}
	entry := *l.open
	entry.Leaving = l.balance
	entry.LongTerm = longTerm
	l.entries = append(l.entries, entry)
	l.last = entry.Date
	l.open = nil
	return entry
}

// KarensDay reports whether the open date had a karens entry.
func (l *Ledger) KarensDay() bool {
	return l.open != nil && l.open.KarensDay
}
