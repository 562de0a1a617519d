// Package rules holds the time-versioned scoring rule sets.
//
// Rule changes are append-only so historical rounds can always be
// re-scored under the rules that were active when they were played.
package rules

import (
	"sort"
	"time"
)

// Set is one scoring configuration: additive bonus/penalty modifiers
// layered on the raw hit count.
type Set struct {
	Bonus15  int `json:"bonus15"`
	Bonus14  int `json:"bonus14"`
	Bonus13  int `json:"bonus13"`
	Bonus12  int `json:"bonus12"`
	Bonus11  int `json:"bonus11"`
	Bonus10  int `json:"bonus10"`
	Penalty3 int `json:"penalty3"`
	Penalty2 int `json:"penalty2"`
	Penalty1 int `json:"penalty1"`
	Penalty0 int `json:"penalty0"`
}

// Default is the rule set the pool started the season with.
var Default = Set{
	Bonus15:  30,
	Bonus14:  30,
	Bonus13:  15,
	Bonus12:  10,
	Bonus11:  5,
	Bonus10:  3,
	Penalty3: -1,
	Penalty2: -2,
	Penalty1: -3,
	Penalty0: -5,
}

// Change is one entry in the rule history.
type Change struct {
	EffectiveDate time.Time `json:"effectiveDate"`
	Rules         Set       `json:"rules"`
}

// History is the ordered sequence of rule changes.
type History struct {
	Changes []Change `json:"changes"`
}

// NewHistory seeds a history with the default rules effective at epoch,
// so ConfigFor always has an entry to fall back to.
func NewHistory() *History {
	return &History{Changes: []Change{{Rules: Default}}}
}

// sorted returns the changes ordered by effective date ascending.
func (h *History) sorted() []Change {
	out := make([]Change, len(h.Changes))
	copy(out, h.Changes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveDate.Before(out[j].EffectiveDate)
	})
	return out
}

// Latest returns the most recent rule set, or Default when empty.
func (h *History) Latest() Set {
	cs := h.sorted()
	if len(cs) == 0 {
		return Default
	}
	return cs[len(cs)-1].Rules
}

// ConfigFor resolves the rule set in effect on the target date: the
// entry with the latest effectiveDate not after the target. When the
// target predates all history the earliest entry applies; a zero target
// means "latest".
func (h *History) ConfigFor(date time.Time) Set {
	cs := h.sorted()
	if len(cs) == 0 {
		return Default
	}
	if date.IsZero() {
		return cs[len(cs)-1].Rules
	}
	for i := len(cs) - 1; i >= 0; i-- {
		if !cs[i].EffectiveDate.After(date) {
			return cs[i].Rules
		}
	}
	return cs[0].Rules
}

// RecordChange appends a new rule set stamped with the current time.
// Prior entries are never mutated or removed.
func (h *History) RecordChange(rules Set) {
	h.Changes = append(h.Changes, Change{EffectiveDate: time.Now(), Rules: rules})
}
