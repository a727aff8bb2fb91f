package activity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/sales-crm/internal/config"
	domain "github.com/BruksfildServices01/sales-crm/internal/domain/activity"
	"github.com/BruksfildServices01/sales-crm/internal/httperr"
)

type LogActivityInput struct {
	UserID     string
	UserName   string
	UserEmail  string
	UserRole   domain.Role
	Action     domain.Action
	EntityType domain.EntityType
	EntityID   string
	EntityName string
	Details    map[string]any
	Metadata   map[string]any
}

type LogActivity struct {
	dispatcher Dispatcher
	now        func() time.Time
}

func NewLogActivity(dispatcher Dispatcher, now func() time.Time) *LogActivity {
	if now == nil {
		now = time.Now
	}
	return &LogActivity{
		dispatcher: dispatcher,
		now:        now,
	}
}

// Execute builds a current-schema record with a server timestamp and queues
// it for persistence.
func (uc *LogActivity) Execute(
	_ context.Context,
	in LogActivityInput,
) (domain.Record, error) {

	in.UserID = strings.TrimSpace(in.UserID)
	if in.UserID == "" {
		return domain.Record{}, httperr.ErrBusiness("missing_user_id")
	}
	if strings.TrimSpace(string(in.Action)) == "" {
		return domain.Record{}, httperr.ErrBusiness("missing_action")
	}
	if strings.TrimSpace(string(in.EntityType)) == "" {
		return domain.Record{}, httperr.ErrBusiness("missing_entity_type")
	}

	switch in.UserRole {
	case "":
		in.UserRole = domain.RoleSeller
	case domain.RoleAdmin, domain.RoleSeller:
	default:
		return domain.Record{}, httperr.ErrBusiness("invalid_user_role")
	}

	if in.UserName == "" {
		in.UserName = domain.LegacyUserName
	}
	if in.Details == nil {
		in.Details = map[string]any{}
	}

	rec := domain.Record{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		UserName:   in.UserName,
		UserEmail:  in.UserEmail,
		UserRole:   in.UserRole,
		Action:     in.Action,
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		EntityName: in.EntityName,
		Details:    in.Details,
		Metadata:   in.Metadata,
		Timestamp:  uc.now().UTC().Format(domain.TimestampLayout),
	}

	if !uc.dispatcher.Dispatch(rec) {
		return domain.Record{}, httperr.ErrBusiness("activity_queue_full")
	}

	return rec, nil
}

// ======================================================
// STORE WRITER
// ======================================================

// StoreWriter persists a record and then retires the cached stats. The
// invalidation must follow the commit, see StatsCache.
type StoreWriter struct {
	repo  domain.Repository
	cache StatsCache
	log   logrus.FieldLogger
}

func NewStoreWriter(repo domain.Repository, cache StatsCache, log logrus.FieldLogger) *StoreWriter {
	return &StoreWriter{repo: repo, cache: cache, log: log}
}

func (w *StoreWriter) Insert(ctx context.Context, rec domain.Record) error {
	if err := w.repo.Insert(ctx, rec); err != nil {
		return err
	}
	if err := w.cache.Invalidate(ctx); err != nil {
		config.LogError(w.log, "usecase/activity", "StoreWriter.Insert", rec.UserID, err)
	}
	return nil
}
