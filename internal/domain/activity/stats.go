package activity

import "sort"

type UserStats struct {
	Count     int    `json:"count"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

type Stats struct {
	Total        int                  `json:"total"`
	ByAction     map[Action]int       `json:"byAction"`
	ByEntityType map[EntityType]int   `json:"byEntityType"`
	ByUser       map[string]UserStats `json:"byUser"`
}

// Aggregate counts records by action, entity type and user in one pass.
//
// Records are visited oldest first, so the name and email kept for a user
// are the ones on their earliest record. Later records never overwrite them.
func (e *Engine) Aggregate(raws []RawRecord) Stats {
	recs := make([]timed, 0, len(raws))
	for _, raw := range raws {
		rec := e.Normalize(raw)
		t, _ := parseTimeString(rec.Timestamp)
		recs = append(recs, timed{rec: rec, at: t})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].at.Before(recs[j].at)
	})

	st := Stats{
		ByAction:     map[Action]int{},
		ByEntityType: map[EntityType]int{},
		ByUser:       map[string]UserStats{},
	}

	for _, r := range recs {
		st.Total++
		st.ByAction[r.rec.Action]++
		st.ByEntityType[r.rec.EntityType]++

		u, seen := st.ByUser[r.rec.UserID]
		if !seen {
			u.UserName = r.rec.UserName
			u.UserEmail = r.rec.UserEmail
		}
		u.Count++
		st.ByUser[r.rec.UserID] = u
	}

	return st
}
