package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/sales-crm/internal/config"
	"github.com/BruksfildServices01/sales-crm/internal/domain/activity"
	"github.com/BruksfildServices01/sales-crm/internal/httperr"
	"github.com/BruksfildServices01/sales-crm/internal/httpresp"
	"github.com/BruksfildServices01/sales-crm/internal/middleware"
	"github.com/BruksfildServices01/sales-crm/internal/timezone"
	ucActivity "github.com/BruksfildServices01/sales-crm/internal/usecase/activity"
)

// ======================================================
// HANDLER
// ======================================================

type ActivityLogsHandler struct {
	list  *ucActivity.ListActivities
	stats *ucActivity.GetActivityStats
	logUC *ucActivity.LogActivity
	loc   *time.Location
	log   logrus.FieldLogger
}

func NewActivityLogsHandler(
	list *ucActivity.ListActivities,
	stats *ucActivity.GetActivityStats,
	logUC *ucActivity.LogActivity,
	loc *time.Location,
	log logrus.FieldLogger,
) *ActivityLogsHandler {
	return &ActivityLogsHandler{
		list:  list,
		stats: stats,
		logUC: logUC,
		loc:   loc,
		log:   log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateActivityRequest struct {
	UserID     string         `json:"userId"`
	UserName   string         `json:"userName"`
	UserEmail  string         `json:"userEmail" binding:"omitempty,email"`
	UserRole   string         `json:"userRole" binding:"omitempty,oneof=admin seller"`
	Action     string         `json:"action" binding:"required"`
	EntityType string         `json:"entityType" binding:"required"`
	EntityID   string         `json:"entityId"`
	EntityName string         `json:"entityName"`
	Details    map[string]any `json:"details"`
	Metadata   map[string]any `json:"metadata"`
}

// ======================================================
// HELPERS
// ======================================================

// scopedUserID returns the user a request may see. Sellers only ever see
// themselves; admins may ask for anyone, or everyone with "".
func scopedUserID(c *gin.Context, requested string) string {
	if c.GetString(middleware.ContextUserRole) == string(activity.RoleAdmin) {
		return requested
	}
	return c.GetString(middleware.ContextUserID)
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	v := c.Query(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (h *ActivityLogsHandler) parseFilter(c *gin.Context) (activity.Filter, bool) {
	f := activity.NewFilter()
	f.UserID = scopedUserID(c, c.Query("userId"))
	f.Action = activity.Action(c.Query("action"))
	f.EntityType = activity.EntityType(c.Query("entityType"))

	if s := c.Query("startDate"); s != "" {
		t, err := timezone.ParseStart(s, h.loc)
		if err != nil {
			return f, false
		}
		f.StartDate = &t
	}
	if s := c.Query("endDate"); s != "" {
		t, err := timezone.ParseEnd(s, h.loc)
		if err != nil {
			return f, false
		}
		f.EndDate = &t
	}

	var ok bool
	if f.Limit, ok = queryInt(c, "limit", activity.DefaultLimit); !ok {
		return f, false
	}
	if f.Offset, ok = queryInt(c, "offset", 0); !ok {
		return f, false
	}

	return f, true
}

// ======================================================
// LIST
// ======================================================

func (h *ActivityLogsHandler) List(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		httperr.BadRequest(c, "invalid_filter", "Invalid filter parameters.")
		return
	}

	page, err := h.list.Execute(c.Request.Context(), filter)
	if err != nil {
		config.LogError(h.log, "handlers", "ActivityLogsHandler.List", nil, err)
		httperr.Internal(c, "activity_list_failed", "Failed to list activity logs.")
		return
	}

	httpresp.Page(c, page.Records, httpresp.Pagination{
		Limit:  page.Limit,
		Offset: page.Offset,
		Total:  page.Total,
	})
}

// ======================================================
// STATS
// ======================================================

func (h *ActivityLogsHandler) Stats(c *gin.Context) {
	userID := scopedUserID(c, c.Query("userId"))

	st, err := h.stats.Execute(c.Request.Context(), userID)
	if err != nil {
		config.LogError(h.log, "handlers", "ActivityLogsHandler.Stats", nil, err)
		httperr.Internal(c, "activity_stats_failed", "Failed to compute activity stats.")
		return
	}

	httpresp.OK(c, st)
}

// ======================================================
// CREATE
// ======================================================

func (h *ActivityLogsHandler) Create(c *gin.Context) {
	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	in := ucActivity.LogActivityInput{
		UserID:     scopedUserID(c, req.UserID),
		UserName:   req.UserName,
		UserEmail:  req.UserEmail,
		UserRole:   activity.Role(req.UserRole),
		Action:     activity.Action(req.Action),
		EntityType: activity.EntityType(req.EntityType),
		EntityID:   req.EntityID,
		EntityName: req.EntityName,
		Details:    req.Details,
		Metadata:   req.Metadata,
	}

	// identity defaults to the caller when logging for themselves
	if in.UserID == "" {
		in.UserID = c.GetString(middleware.ContextUserID)
	}
	if in.UserID == c.GetString(middleware.ContextUserID) {
		if in.UserName == "" {
			in.UserName = c.GetString(middleware.ContextUserName)
		}
		if in.UserEmail == "" {
			in.UserEmail = c.GetString(middleware.ContextUserEmail)
		}
		if in.UserRole == "" {
			in.UserRole = activity.Role(c.GetString(middleware.ContextUserRole))
		}
	}
	if c.GetString(middleware.ContextUserRole) != string(activity.RoleAdmin) {
		in.UserRole = activity.RoleSeller
	}

	rec, err := h.logUC.Execute(c.Request.Context(), in)
	if err != nil {
		code, ok := httperr.Code(err)
		switch {
		case code == "activity_queue_full":
			httperr.Unavailable(c, code, "Activity log is busy, retry later.")
		case ok:
			httperr.BadRequest(c, code, "Invalid activity.")
		default:
			config.LogError(h.log, "handlers", "ActivityLogsHandler.Create", nil, err)
			httperr.Internal(c, "activity_create_failed", "Failed to record activity.")
		}
		return
	}

	httpresp.Created(c, rec)
}
