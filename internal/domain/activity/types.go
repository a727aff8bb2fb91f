package activity

import "encoding/json"

// ===============================
// Enums
// ===============================

type Action string

const (
	ActionLogin               Action = "login"
	ActionLogout              Action = "logout"
	ActionTaskCreated         Action = "task_created"
	ActionTaskCompleted       Action = "task_completed"
	ActionTaskUpdated         Action = "task_updated"
	ActionTaskDeleted         Action = "task_deleted"
	ActionRelationshipCreated Action = "relationship_created"
	ActionRelationshipUpdated Action = "relationship_updated"
	ActionRelationshipDeleted Action = "relationship_deleted"
	ActionActionCompleted     Action = "action_completed"
	ActionNoteAdded           Action = "note_added"
	ActionBriefingGenerated   Action = "briefing_generated"

	// legacy-derived
	ActionCallCompleted     Action = "call_completed"
	ActionEmailCompleted    Action = "email_completed"
	ActionMeetingCompleted  Action = "meeting_completed"
	ActionDemoCompleted     Action = "demo_completed"
	ActionFollowUpCompleted Action = "follow_up_completed"
	ActionResearchCompleted Action = "research_completed"
	ActionAdminCompleted    Action = "admin_completed"
)

type EntityType string

const (
	EntityTask         EntityType = "task"
	EntityRelationship EntityType = "relationship"
	EntityAuth         EntityType = "auth"
	EntityNote         EntityType = "note"
	EntityBriefing     EntityType = "briefing"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
)

// LegacyUserName is shown for records written before user names were stored.
const LegacyUserName = "Venditore"

// TimestampLayout is used whenever a timestamp has to be rendered.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ===============================
// Records
// ===============================

// RawRecord is one stored document as read from the store, shape unknown.
type RawRecord struct {
	ID     string
	Fields map[string]any
}

// Record is the canonical activity entry every stored document normalizes to.
// Extra carries the document keys none of the canonical fields consumed; it
// is rendered inline, never under its own key.
type Record struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	UserName   string         `json:"userName"`
	UserEmail  string         `json:"userEmail"`
	UserRole   Role           `json:"userRole"`
	Action     Action         `json:"action"`
	EntityType EntityType     `json:"entityType"`
	EntityID   string         `json:"entityId,omitempty"`
	EntityName string         `json:"entityName,omitempty"`
	Details    map[string]any `json:"details"`
	Timestamp  string         `json:"timestamp"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Extra      map[string]any `json:"-"`
}

// canonicalKeys are the document keys mapped onto Record fields.
var canonicalKeys = map[string]bool{
	"id":         true,
	"userId":     true,
	"userName":   true,
	"userEmail":  true,
	"userRole":   true,
	"action":     true,
	"entityType": true,
	"entityId":   true,
	"entityName": true,
	"details":    true,
	"timestamp":  true,
	"metadata":   true,
}

// Fields renders the record in the new storage schema, so that feeding it
// back through Normalize returns the same record.
func (r Record) Fields() map[string]any {
	out := make(map[string]any, len(r.Extra)+12)
	for k, v := range r.Extra {
		if !canonicalKeys[k] {
			out[k] = v
		}
	}

	out["userId"] = r.UserID
	out["userName"] = r.UserName
	out["userEmail"] = r.UserEmail
	out["userRole"] = string(r.UserRole)
	out["action"] = string(r.Action)
	out["entityType"] = string(r.EntityType)
	out["timestamp"] = r.Timestamp

	if r.EntityID != "" {
		out["entityId"] = r.EntityID
	}
	if r.EntityName != "" {
		out["entityName"] = r.EntityName
	}
	if r.Details != nil {
		out["details"] = r.Details
	}
	if r.Metadata != nil {
		out["metadata"] = r.Metadata
	}
	return out
}

// MarshalJSON emits the canonical fields with Extra inlined.
func (r Record) MarshalJSON() ([]byte, error) {
	out := r.Fields()
	out["id"] = r.ID
	out["details"] = r.Details
	return json.Marshal(out)
}
