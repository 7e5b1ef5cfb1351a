package sickpay

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/vacancy-engine/generic"
)

// ClassHours is the hours of one OB class and status for a person.
type ClassHours struct {
	OBClass OBClass
	Status  Status
	Hours   decimal.Decimal
}

// PersonSummary totals a person's vacant hours.
type PersonSummary struct {
	PersonID      generic.EntityID
	ByClass       []ClassHours
	PaidHours     decimal.Decimal // Sjuklön dag 1 + dag 2-14
	WaitingHours  decimal.Decimal // Karens
	BeyondDay14   decimal.Decimal // Karens och >14
	TotalHours    decimal.Decimal
	PaidByOBClass map[OBClass]decimal.Decimal
}

// Summarize groups segments per person, OB class and status. Rows come out
// in report order (OBClasses) and then by status.
func Summarize(segments []Segment) []PersonSummary {
	type key struct {
		ob     OBClass
		status Status
	}
	byPerson := make(map[generic.EntityID]*PersonSummary)
	hours := make(map[generic.EntityID]map[key]decimal.Decimal)

	for _, s := range segments {
		ps, ok := byPerson[s.PersonID]
		if !ok {
			ps = &PersonSummary{PersonID: s.PersonID, PaidByOBClass: make(map[OBClass]decimal.Decimal)}
			byPerson[s.PersonID] = ps
			hours[s.PersonID] = make(map[key]decimal.Decimal)
		}
		k := key{ob: s.OBClass, status: s.Status}
		hours[s.PersonID][k] = hours[s.PersonID][k].Add(s.Hours)

		ps.TotalHours = ps.TotalHours.Add(s.Hours)
		switch s.Status {
		case StatusPaidDay1, StatusPaidDay2To14:
			ps.PaidHours = ps.PaidHours.Add(s.Hours)
			ps.PaidByOBClass[s.OBClass] = ps.PaidByOBClass[s.OBClass].Add(s.Hours)
		case StatusWaitingPeriod:
			ps.WaitingHours = ps.WaitingHours.Add(s.Hours)
		case StatusBeyondDay14:
			ps.BeyondDay14 = ps.BeyondDay14.Add(s.Hours)
		}
	}

	rank := make(map[OBClass]int, len(OBClasses))
	for i, c := range OBClasses {
		rank[c] = i
	}

	out := make([]PersonSummary, 0, len(byPerson))
	for id, ps := range byPerson {
		for k, h := range hours[id] {
			ps.ByClass = append(ps.ByClass, ClassHours{OBClass: k.ob, Status: k.status, Hours: h})
		}
		sort.Slice(ps.ByClass, func(i, j int) bool {
			a, b := ps.ByClass[i], ps.ByClass[j]
			if a.OBClass != b.OBClass {
				return rank[a.OBClass] < rank[b.OBClass]
			}
			return a.Status < b.Status
		})
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PersonID < out[j].PersonID })
	return out
}
