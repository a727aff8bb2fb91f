package activity

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func testEngine() *Engine {
	return New(func() time.Time { return fixedNow })
}

func TestNormalizeLegacyRecord(t *testing.T) {
	e := testEngine()

	rec := e.Normalize(RawRecord{ID: "a1", Fields: map[string]any{
		"type":      "call",
		"createdAt": "2024-01-01T10:00:00Z",
		"userId":    "u1",
		"title":     "Call A",
	}})

	if rec.Action != ActionCallCompleted {
		t.Errorf("Expected call_completed, got %s", rec.Action)
	}
	if rec.EntityType != "call" {
		t.Errorf("Expected entityType call, got %s", rec.EntityType)
	}
	if rec.Timestamp != "2024-01-01T10:00:00Z" {
		t.Errorf("Expected timestamp kept verbatim, got %s", rec.Timestamp)
	}
	if rec.UserName != LegacyUserName || rec.UserRole != RoleSeller {
		t.Errorf("Expected legacy identity defaults, got %s/%s", rec.UserName, rec.UserRole)
	}
	if rec.EntityName != "Call A" {
		t.Errorf("Expected entityName from title, got %q", rec.EntityName)
	}

	want := map[string]any{"title": "Call A", "legacy": true}
	if !reflect.DeepEqual(rec.Details, want) {
		t.Errorf("Expected details %v, got %v", want, rec.Details)
	}
}

func TestNormalizeLegacyDetails(t *testing.T) {
	rec := testEngine().Normalize(RawRecord{ID: "a2", Fields: map[string]any{
		"type":        "meeting",
		"createdAt":   "2024-02-01T08:00:00Z",
		"title":       "Kickoff",
		"description": "first meeting",
		"outcome":     "positive",
		"duration":    float64(45),
	}})

	want := map[string]any{
		"title":       "Kickoff",
		"description": "first meeting",
		"outcome":     "positive",
		"duration":    float64(45),
		"legacy":      true,
	}
	if !reflect.DeepEqual(rec.Details, want) {
		t.Errorf("Expected details %v, got %v", want, rec.Details)
	}
}

func TestLegacyActionMapping(t *testing.T) {
	cases := map[string]Action{
		"call":            "call_completed",
		"email":           "email_completed",
		"meeting":         "meeting_completed",
		"demo":            "demo_completed",
		"follow_up":       "follow_up_completed",
		"research":        "research_completed",
		"admin":           "admin_completed",
		"custom_old_type": "custom_old_type",
	}

	e := testEngine()
	for legacyType, want := range cases {
		for i := 0; i < 2; i++ {
			rec := e.Normalize(RawRecord{ID: "x", Fields: map[string]any{
				"type":      legacyType,
				"createdAt": "2024-01-01T00:00:00Z",
			}})
			if rec.Action != want {
				t.Errorf("type %s: expected %s, got %s", legacyType, want, rec.Action)
			}
		}
	}
}

func TestNormalizeCurrentRecord(t *testing.T) {
	rec := testEngine().Normalize(RawRecord{ID: "n1", Fields: map[string]any{
		"action":     "email_sent",
		"timestamp":  "2024-01-02T10:00:00Z",
		"userId":     "u1",
		"userName":   "Maria Rossi",
		"userEmail":  "maria@example.com",
		"userRole":   "admin",
		"entityType": "email",
		"entityId":   "e-9",
		"details":    map[string]any{"subject": "Offer"},
		"metadata":   map[string]any{"ip": "10.0.0.1"},
	}})

	if rec.Action != "email_sent" || rec.EntityType != "email" {
		t.Errorf("Expected pass-through of action/entityType, got %s/%s", rec.Action, rec.EntityType)
	}
	if rec.UserRole != RoleAdmin || rec.UserName != "Maria Rossi" {
		t.Errorf("Expected identity pass-through, got %s/%s", rec.UserName, rec.UserRole)
	}
	if rec.Details["subject"] != "Offer" || rec.Metadata["ip"] != "10.0.0.1" {
		t.Errorf("Expected details and metadata pass-through, got %v %v", rec.Details, rec.Metadata)
	}
	if rec.Timestamp != "2024-01-02T10:00:00Z" {
		t.Errorf("Expected timestamp kept, got %s", rec.Timestamp)
	}
}

func TestNormalizeNativeTimestamps(t *testing.T) {
	want := "2024-01-02T10:00:00.000Z"
	at := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	cases := map[string]any{
		"time":        at,
		"pointer":     &at,
		"seconds":     map[string]any{"seconds": float64(at.Unix()), "nanoseconds": float64(0)},
		"_seconds":    map[string]any{"_seconds": float64(at.Unix()), "_nanoseconds": float64(0)},
		"epoch_milli": float64(at.UnixMilli()),
	}

	e := testEngine()
	for name, v := range cases {
		rec := e.Normalize(RawRecord{ID: name, Fields: map[string]any{
			"action":    "login",
			"timestamp": v,
		}})
		if rec.Timestamp != want {
			t.Errorf("%s: expected %s, got %s", name, want, rec.Timestamp)
		}
	}
}

func TestNormalizeIsTotal(t *testing.T) {
	inputs := []map[string]any{
		nil,
		{},
		{"garbage": []any{1, 2, 3}, "userId": 42},
		{"action": "login"},
		{"type": "call"},
		{"action": "login", "timestamp": true},
		{"type": 7, "createdAt": map[string]any{"nope": 1}},
	}

	e := testEngine()
	for i, in := range inputs {
		rec := e.Normalize(RawRecord{ID: "g", Fields: in})
		if rec.Timestamp == "" {
			t.Errorf("input %d: expected a timestamp", i)
		}
		if rec.ID != "g" {
			t.Errorf("input %d: expected id g, got %s", i, rec.ID)
		}
		if rec.Details == nil {
			t.Errorf("input %d: expected non-nil details", i)
		}
	}
}

func TestNormalizeUnknownShape(t *testing.T) {
	e := testEngine()

	rec := e.Normalize(RawRecord{ID: "u", Fields: map[string]any{
		"userId":     "u3",
		"entityType": "note",
		"created_at": "2023-05-05T05:05:05Z",
	}})
	if rec.Timestamp != "2023-05-05T05:05:05Z" {
		t.Errorf("Expected fallback time field, got %s", rec.Timestamp)
	}
	if rec.UserID != "u3" || rec.EntityType != EntityNote {
		t.Errorf("Expected pass-through fields, got %+v", rec)
	}

	rec = e.Normalize(RawRecord{ID: "v", Fields: map[string]any{"userId": "u3"}})
	if rec.Timestamp != fixedNow.Format(TimestampLayout) {
		t.Errorf("Expected now, got %s", rec.Timestamp)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	e := testEngine()

	raws := []RawRecord{
		{ID: "1", Fields: map[string]any{"type": "demo", "createdAt": "2024-01-01T10:00:00Z", "userId": "u1", "title": "Demo"}},
		{ID: "2", Fields: map[string]any{"action": "task_created", "timestamp": time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), "userId": "u2", "entityType": "task"}},
		{ID: "3", Fields: map[string]any{"userId": "u3"}},
		{ID: "4", Fields: map[string]any{
			"action": "note_added", "timestamp": "2024-01-04T00:00:00Z", "entityType": "note",
			"details": map[string]any{"text": "hello"}, "metadata": map[string]any{"source": "web"},
		}},
	}

	for _, raw := range raws {
		once := e.Normalize(raw)
		twice := e.Normalize(RawRecord{ID: once.ID, Fields: once.Fields()})
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("record %s: expected idempotence\n once:  %+v\n twice: %+v", raw.ID, once, twice)
		}
	}
}

func TestNormalizeUnknownShapeKeepsUnknownFields(t *testing.T) {
	e := testEngine()

	rec := e.Normalize(RawRecord{ID: "k", Fields: map[string]any{
		"type":   "call",
		"title":  "Call X",
		"userId": "u1",
		"notes":  "kept?",
	}})

	want := map[string]any{"type": "call", "title": "Call X", "notes": "kept?"}
	if !reflect.DeepEqual(rec.Extra, want) {
		t.Errorf("Expected extra fields %v, got %v", want, rec.Extra)
	}

	f := rec.Fields()
	for k, v := range want {
		if f[k] != v {
			t.Errorf("Expected %s=%v in stored fields, got %v", k, v, f[k])
		}
	}

	twice := e.Normalize(RawRecord{ID: rec.ID, Fields: f})
	if !reflect.DeepEqual(rec, twice) {
		t.Errorf("Expected idempotence\n once:  %+v\n twice: %+v", rec, twice)
	}
}

func TestNormalizeCurrentRecordKeepsUnknownFields(t *testing.T) {
	rec := testEngine().Normalize(RawRecord{ID: "c", Fields: map[string]any{
		"action":    "login",
		"timestamp": "2024-01-01T00:00:00Z",
		"ip":        "10.0.0.1",
	}})
	if rec.Extra["ip"] != "10.0.0.1" {
		t.Errorf("Expected ip carried as extra, got %v", rec.Extra)
	}

	plain := testEngine().Normalize(RawRecord{ID: "p", Fields: map[string]any{
		"action":    "login",
		"timestamp": "2024-01-01T00:00:00Z",
	}})
	if plain.Extra != nil {
		t.Errorf("Expected nil extra, got %v", plain.Extra)
	}
}

func TestRecordJSONInlinesExtra(t *testing.T) {
	rec := testEngine().Normalize(RawRecord{ID: "j", Fields: map[string]any{
		"userId": "u1",
		"notes":  "kept",
	}})

	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]any
	json.Unmarshal(b, &out)

	if out["notes"] != "kept" || out["id"] != "j" || out["userId"] != "u1" {
		t.Errorf("Unexpected JSON %s", b)
	}
	if _, ok := out["Extra"]; ok {
		t.Errorf("Expected extra inlined, got %s", b)
	}
	if _, ok := out["details"]; !ok {
		t.Errorf("Expected details key, got %s", b)
	}
}

func TestFieldString(t *testing.T) {
	cases := map[string]any{
		"":    nil,
		"u1":  "u1",
		"42":  float64(42),
		"7":   7,
		"yes": "yes",
	}
	for want, in := range cases {
		if got := FieldString(in); got != want {
			t.Errorf("FieldString(%v): expected %q, got %q", in, want, got)
		}
	}
}
