package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/sales-crm/internal/domain/activity"
	"github.com/BruksfildServices01/sales-crm/internal/models"
)

type ActivityGormRepository struct {
	db *gorm.DB
}

func NewActivityGormRepository(db *gorm.DB) *ActivityGormRepository {
	return &ActivityGormRepository{db: db}
}

// --------------------------------------------------
// Read
// --------------------------------------------------

// ListRaw returns stored documents in insertion order. A document that is
// not valid JSON comes back with empty fields rather than an error.
func (r *ActivityGormRepository) ListRaw(
	ctx context.Context,
	userID string,
) ([]activity.RawRecord, error) {

	q := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var rows []models.ActivityLog
	if err := q.
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}

	out := make([]activity.RawRecord, 0, len(rows))
	for _, row := range rows {
		fields := map[string]any{}
		if err := json.Unmarshal([]byte(row.Document), &fields); err != nil || fields == nil {
			fields = map[string]any{}
		}
		out = append(out, activity.RawRecord{ID: row.ID, Fields: fields})
	}

	return out, nil
}

// --------------------------------------------------
// Write
// --------------------------------------------------

func (r *ActivityGormRepository) Insert(
	ctx context.Context,
	rec activity.Record,
) error {
	return r.ImportRaw(ctx, rec.ID, rec.Fields())
}

// ImportRaw stores a document exactly as given, whatever its schema.
func (r *ActivityGormRepository) ImportRaw(
	ctx context.Context,
	id string,
	fields map[string]any,
) error {

	doc, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode activity document %s: %w", id, err)
	}

	row := models.ActivityLog{
		ID:        id,
		UserID:    activity.FieldString(fields["userId"]),
		Document:  string(doc),
		CreatedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert activity log %s: %w", id, err)
	}
	return nil
}

// Compile-time check
var _ activity.Repository = (*ActivityGormRepository)(nil)
