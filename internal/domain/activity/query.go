package activity

import (
	"sort"
	"time"
)

const DefaultLimit = 100

// Filter selects activity records. UserID is normally pushed down to the
// store; it is honoured here as well so the engine stays correct on its own.
// A zero Limit yields an empty page, use NewFilter for the defaults.
type Filter struct {
	UserID     string
	Action     Action
	EntityType EntityType
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

func NewFilter() Filter {
	return Filter{Limit: DefaultLimit}
}

// Page is one slice of the filtered, newest-first record set.
type Page struct {
	Records []Record
	Total   int
	Limit   int
	Offset  int
}

// Query normalizes raws, filters them, sorts newest first (stable on input
// order) and returns the [Offset, Offset+Limit) window.
func (e *Engine) Query(raws []RawRecord, f Filter) Page {
	if f.Limit < 0 {
		f.Limit = DefaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	matched := make([]timed, 0, len(raws))
	for _, raw := range raws {
		rec := e.Normalize(raw)
		t, ok := parseTimeString(rec.Timestamp)
		if !f.matches(rec, t, ok) {
			continue
		}
		matched = append(matched, timed{rec: rec, at: t})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].at.After(matched[j].at)
	})

	page := Page{
		Records: []Record{},
		Total:   len(matched),
		Limit:   f.Limit,
		Offset:  f.Offset,
	}
	if f.Offset >= len(matched) || f.Limit == 0 {
		return page
	}

	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	for _, m := range matched[f.Offset:end] {
		page.Records = append(page.Records, m.rec)
	}
	return page
}

type timed struct {
	rec Record
	at  time.Time
}

// matches applies the exact and inclusive-range filters. Records whose
// timestamp cannot be parsed never satisfy a date bound.
func (f Filter) matches(rec Record, at time.Time, parsed bool) bool {
	if f.UserID != "" && rec.UserID != f.UserID {
		return false
	}
	if f.Action != "" && rec.Action != f.Action {
		return false
	}
	if f.EntityType != "" && rec.EntityType != f.EntityType {
		return false
	}
	if f.StartDate == nil && f.EndDate == nil {
		return true
	}
	if !parsed {
		return false
	}

	at = at.Truncate(time.Millisecond)
	if f.StartDate != nil && at.Before(f.StartDate.Truncate(time.Millisecond)) {
		return false
	}
	if f.EndDate != nil && at.After(f.EndDate.Truncate(time.Millisecond)) {
		return false
	}
	return true
}
