package activity

import "testing"

func TestAggregateScenario(t *testing.T) {
	raws := []RawRecord{
		{ID: "1", Fields: map[string]any{"type": "call", "createdAt": "2024-01-01T10:00:00Z", "userId": "u1", "title": "Call A"}},
		{ID: "2", Fields: map[string]any{"action": "email_sent", "timestamp": "2024-01-02T10:00:00Z", "userId": "u1", "entityType": "email"}},
	}

	st := testEngine().Aggregate(raws)

	if st.Total != 2 {
		t.Errorf("Expected total 2, got %d", st.Total)
	}
	if st.ByAction["call_completed"] != 1 || st.ByAction["email_sent"] != 1 {
		t.Errorf("Unexpected byAction %v", st.ByAction)
	}
	if st.ByEntityType["call"] != 1 || st.ByEntityType["email"] != 1 {
		t.Errorf("Unexpected byEntityType %v", st.ByEntityType)
	}
	if st.ByUser["u1"].Count != 2 {
		t.Errorf("Expected 2 records for u1, got %d", st.ByUser["u1"].Count)
	}
}

func TestAggregateSumsMatchTotal(t *testing.T) {
	st := testEngine().Aggregate(mixedRecords())

	var byAction, byEntity, byUser int
	for _, n := range st.ByAction {
		byAction += n
	}
	for _, n := range st.ByEntityType {
		byEntity += n
	}
	for _, u := range st.ByUser {
		byUser += u.Count
	}

	if st.Total != 10 || byAction != 10 || byEntity != 10 || byUser != 10 {
		t.Errorf("Expected every grouping to sum to 10, got total=%d action=%d entity=%d user=%d",
			st.Total, byAction, byEntity, byUser)
	}
	if len(st.ByUser) != 3 {
		t.Errorf("Expected 3 users, got %d", len(st.ByUser))
	}
}

func TestAggregateKeepsEarliestIdentity(t *testing.T) {
	newer := RawRecord{ID: "b", Fields: map[string]any{
		"action": "login", "timestamp": "2024-02-01T00:00:00Z",
		"userId": "u1", "userName": "Renamed", "userEmail": "new@example.com", "entityType": "auth",
	}}
	older := RawRecord{ID: "a", Fields: map[string]any{
		"action": "login", "timestamp": "2024-01-01T00:00:00Z",
		"userId": "u1", "userName": "Original", "userEmail": "old@example.com", "entityType": "auth",
	}}

	for _, order := range [][]RawRecord{{newer, older}, {older, newer}} {
		u := testEngine().Aggregate(order).ByUser["u1"]
		if u.UserName != "Original" || u.UserEmail != "old@example.com" {
			t.Errorf("Expected earliest identity, got %s <%s>", u.UserName, u.UserEmail)
		}
		if u.Count != 2 {
			t.Errorf("Expected count 2, got %d", u.Count)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	st := testEngine().Aggregate(nil)
	if st.Total != 0 || st.ByAction == nil || st.ByEntityType == nil || st.ByUser == nil {
		t.Errorf("Expected zero stats with non-nil maps, got %+v", st)
	}
}
