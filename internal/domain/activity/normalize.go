package activity

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Engine normalizes, queries and aggregates stored activity documents.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	now func() time.Time
}

// New returns an Engine that stamps timeless documents with now().
// A nil clock falls back to time.Now.
func New(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

var defaultEngine = New(nil)

// Normalize maps one stored document to its canonical Record using the
// wall clock for documents without any time field.
func Normalize(raw RawRecord) Record {
	return defaultEngine.Normalize(raw)
}

// legacyActions maps the pre-migration "type" field to its canonical action.
// Read-only; never mutated after init.
var legacyActions = map[string]Action{
	"call":      ActionCallCompleted,
	"email":     ActionEmailCompleted,
	"meeting":   ActionMeetingCompleted,
	"demo":      ActionDemoCompleted,
	"follow_up": ActionFollowUpCompleted,
	"research":  ActionResearchCompleted,
	"admin":     ActionAdminCompleted,
}

// LegacyAction returns the canonical action for a legacy type. Unmapped
// types pass through unchanged.
func LegacyAction(legacyType string) Action {
	if a, ok := legacyActions[legacyType]; ok {
		return a
	}
	return Action(legacyType)
}

// Normalize never fails: documents of unknown shape degrade to a best-effort
// record carrying whatever fields exist.
func (e *Engine) Normalize(raw RawRecord) Record {
	f := raw.Fields
	if f == nil {
		f = map[string]any{}
	}

	switch {
	case has(f, "action") && has(f, "timestamp"):
		return e.fromCurrent(raw.ID, f)
	case has(f, "type") && has(f, "createdAt"):
		return e.fromLegacy(raw.ID, f)
	default:
		return e.fromUnknown(raw.ID, f)
	}
}

func (e *Engine) fromCurrent(id string, f map[string]any) Record {
	rec := passThrough(id, f)
	rec.Timestamp = e.timestampOf(f["timestamp"])
	return rec
}

func (e *Engine) fromLegacy(id string, f map[string]any) Record {
	legacyType := FieldString(f["type"])

	details := map[string]any{"legacy": true}
	for _, k := range []string{"title", "description", "outcome", "duration"} {
		if v, ok := f[k]; ok && v != nil {
			details[k] = v
		}
	}

	return Record{
		ID:         id,
		UserID:     FieldString(f["userId"]),
		UserName:   LegacyUserName,
		UserEmail:  FieldString(f["userEmail"]),
		UserRole:   RoleSeller,
		Action:     LegacyAction(legacyType),
		EntityType: EntityType(legacyType),
		EntityID:   FieldString(f["entityId"]),
		EntityName: FieldString(f["title"]),
		Details:    details,
		Timestamp:  e.timestampOf(f["createdAt"]),
	}
}

func (e *Engine) fromUnknown(id string, f map[string]any) Record {
	rec := passThrough(id, f)
	for _, k := range []string{"timestamp", "createdAt", "created_at"} {
		if ts, ok := formatTime(f[k]); ok {
			rec.Timestamp = ts
			return rec
		}
	}
	rec.Timestamp = e.stamp(e.now())
	return rec
}

func passThrough(id string, f map[string]any) Record {
	rec := Record{
		ID:         id,
		UserID:     FieldString(f["userId"]),
		UserName:   FieldString(f["userName"]),
		UserEmail:  FieldString(f["userEmail"]),
		UserRole:   Role(FieldString(f["userRole"])),
		Action:     Action(FieldString(f["action"])),
		EntityType: EntityType(FieldString(f["entityType"])),
		EntityID:   FieldString(f["entityId"]),
		EntityName: FieldString(f["entityName"]),
		Details:    object(f["details"]),
		Metadata:   object(f["metadata"]),
		Extra:      extraFields(f),
	}
	if rec.UserName == "" {
		rec.UserName = LegacyUserName
	}
	if rec.UserRole == "" {
		rec.UserRole = RoleSeller
	}
	if rec.Details == nil {
		rec.Details = map[string]any{}
	}
	return rec
}

func (e *Engine) timestampOf(v any) string {
	if ts, ok := formatTime(v); ok {
		return ts
	}
	return e.stamp(e.now())
}

func (e *Engine) stamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ===============================
// Field helpers
// ===============================

// extraFields collects the keys outside the canonical set, nil when none.
func extraFields(f map[string]any) map[string]any {
	var extra map[string]any
	for k, v := range f {
		if canonicalKeys[k] {
			continue
		}
		if extra == nil {
			extra = map[string]any{}
		}
		extra[k] = v
	}
	return extra
}

func has(f map[string]any, key string) bool {
	v, ok := f[key]
	return ok && v != nil
}

// FieldString is the conversion applied to every scalar document field, so
// stores indexing a field agree with what normalization yields.
func FieldString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func object(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

// formatTime converts any supported time representation to the canonical
// string. Strings are kept verbatim.
func formatTime(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case time.Time:
		if t.IsZero() {
			return "", false
		}
		return t.UTC().Format(TimestampLayout), true
	case *time.Time:
		if t == nil || t.IsZero() {
			return "", false
		}
		return t.UTC().Format(TimestampLayout), true
	case map[string]any:
		if ts, ok := nativeTimestamp(t); ok {
			return ts.UTC().Format(TimestampLayout), true
		}
	default:
		if ms, ok := number(v); ok {
			return time.UnixMilli(int64(ms)).UTC().Format(TimestampLayout), true
		}
	}
	return "", false
}

// nativeTimestamp decodes the {seconds, nanoseconds} object document
// databases use when a native timestamp is serialized.
func nativeTimestamp(m map[string]any) (time.Time, bool) {
	secs, ok := number(m["seconds"])
	if !ok {
		if secs, ok = number(m["_seconds"]); !ok {
			return time.Time{}, false
		}
	}
	nanos, ok := number(m["nanoseconds"])
	if !ok {
		nanos, _ = number(m["_nanoseconds"])
	}
	return time.Unix(int64(secs), int64(nanos)), true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
