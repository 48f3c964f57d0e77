package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studiohub/internal/domain/errors"
	"studiohub/internal/domain/models"
	"studiohub/internal/domain/schema"
	"studiohub/internal/service"
	"studiohub/internal/validation"
)

// filterFunc turns the request into the conditions of a listing.
type filterFunc func(ctx *gin.Context) ([]schema.Condition, error)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errors.ErrBadRequest, fmt.Sprintf(format, args...))
}

// fail writes the response for err. entity names the resource in not
// found messages.
func (a *StudioAPI) fail(ctx *gin.Context, err error, entity string) {
	var verrs errors.ValidationErrors
	var ierr *errors.IntegrityError
	switch {
	case errors.As(err, &verrs):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": verrs})
	case errors.As(err, &ierr):
		ctx.JSON(http.StatusConflict, gin.H{"error": ierr.Reason, "constraint": ierr.Constraint})
	case errors.Is(err, errors.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	case errors.Is(err, errors.ErrBadRequest), errors.Is(err, errors.ErrUnknownColumn):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errors.ErrInvalidCredentials):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, errors.ErrMessagingDisabled), errors.Is(err, errors.ErrDeliveryLogOff):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, errors.ErrMessageRejected):
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		requestLog(ctx, a.log).Error("request failed", zap.String("entity", entity), zap.Error(err))
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, badRequest("invalid id %q", raw)
	}
	return id, nil
}

// pathID reads the :id parameter, answering 400 itself when it is not a
// positive integer.
func pathID(ctx *gin.Context) (int64, bool) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return id, true
}

func bindJSON(ctx *gin.Context, dst any) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error(), "details": err.Error()})
		return false
	}
	return true
}

func createHandler[E, C, U any](a *StudioAPI, crud *service.CRUD[E, C, U], entity string, prepare func(*gin.Context, *C) error) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var in C
		if !bindJSON(ctx, &in) {
			return
		}
		if prepare != nil {
			if err := prepare(ctx, &in); err != nil {
				a.fail(ctx, err, entity)
				return
			}
		}
		e, err := crud.Create(ctx.Request.Context(), in)
		if err != nil {
			a.fail(ctx, err, entity)
			return
		}
		ctx.JSON(http.StatusCreated, e)
	}
}

func getHandler[E, C, U any](a *StudioAPI, crud *service.CRUD[E, C, U], entity string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		e, err := crud.Get(ctx.Request.Context(), id)
		if err != nil {
			a.fail(ctx, err, entity)
			return
		}
		ctx.JSON(http.StatusOK, e)
	}
}

func updateHandler[E, C, U any](a *StudioAPI, crud *service.CRUD[E, C, U], entity string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		var in U
		if !bindJSON(ctx, &in) {
			return
		}
		e, err := crud.Update(ctx.Request.Context(), id, in)
		if err != nil {
			a.fail(ctx, err, entity)
			return
		}
		ctx.JSON(http.StatusOK, e)
	}
}

func deleteHandler[E, C, U any](a *StudioAPI, crud *service.CRUD[E, C, U], entity string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		if _, err := crud.Delete(ctx.Request.Context(), id); err != nil {
			a.fail(ctx, err, entity)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"message": entity + " deleted successfully"})
	}
}

func listHandler[E, C, U any](a *StudioAPI, crud *service.CRUD[E, C, U], plural string, filter filterFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		q := query{ctx: ctx}
		skip := q.intParam("skip", 0)
		limit := q.intParam("limit", schema.DefaultLimit)
		if q.err != nil {
			a.fail(ctx, q.err, plural)
			return
		}
		conds, err := filter(ctx)
		if err != nil {
			a.fail(ctx, err, plural)
			return
		}

		page, err := crud.List(ctx.Request.Context(), conds, skip, limit)
		if err != nil {
			a.fail(ctx, err, plural)
			return
		}
		items := page.Items
		if items == nil {
			items = []E{}
		}
		ctx.JSON(http.StatusOK, gin.H{
			plural:  items,
			"total": page.Total,
			"skip":  page.Skip,
			"limit": page.Limit,
		})
	}
}

// byParent lists the children of the :id path parameter.
func byParent(build func(id int64) []schema.Condition) filterFunc {
	return func(ctx *gin.Context) ([]schema.Condition, error) {
		id, err := parseID(ctx.Param("id"))
		if err != nil {
			return nil, err
		}
		return build(id), nil
	}
}

// query reads typed query parameters, keeping the first error.
type query struct {
	ctx *gin.Context
	err error
}

func (q *query) value(names ...string) (string, string) {
	for _, name := range names {
		if v, ok := q.ctx.GetQuery(name); ok {
			return name, strings.TrimSpace(v)
		}
	}
	return "", ""
}

func (q *query) str(name string) string {
	_, v := q.value(name)
	return v
}

func (q *query) intParam(name string, def int) int {
	_, raw := q.value(name)
	if raw == "" || q.err != nil {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.err = badRequest("%s must be an integer", name)
		return def
	}
	return n
}

func (q *query) int64Param(names ...string) *int64 {
	name, raw := q.value(names...)
	if raw == "" || q.err != nil {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		q.err = badRequest("%s must be an integer", name)
		return nil
	}
	return &n
}

func (q *query) boolParam(name string) bool {
	_, raw := q.value(name)
	if raw == "" || q.err != nil {
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		q.err = badRequest("%s must be a boolean", name)
		return false
	}
	return b
}

// queryEnum reads the first of names that is present and checks it against
// allowed.
func queryEnum[T ~string](q *query, allowed []T, names ...string) *T {
	name, raw := q.value(names...)
	if raw == "" || q.err != nil {
		return nil
	}
	v := T(raw)
	if err := validation.Enum(validation.Label(strings.TrimSuffix(name, "_filter")), v, allowed); err != nil {
		q.err = errors.NewValidationError(name, err.Error())
		return nil
	}
	return &v
}

func userFilter(ctx *gin.Context) ([]schema.Condition, error) {
	q := query{ctx: ctx}
	f := service.UserFilter{Email: q.str("email"), ActiveOnly: q.boolParam("active_only")}
	return f.Conditions(), q.err
}

func clientFilter(ctx *gin.Context) ([]schema.Condition, error) {
	q := query{ctx: ctx}
	return service.ClientFilter{Name: q.str("name")}.Conditions(), nil
}

func craftsmanFilter(ctx *gin.Context) ([]schema.Condition, error) {
	q := query{ctx: ctx}
	f := service.CraftsmanFilter{
		ActiveOnly:  q.boolParam("active_only"),
		Phone:       q.str("phone"),
		WhatsApp:    q.str("whatsapp"),
		Specialties: q.str("specialties"),
	}
	return f.Conditions(), q.err
}

func projectFilter(ctx *gin.Context) ([]schema.Condition, error) {
	q := query{ctx: ctx}
	f := service.ProjectFilter{
		UserID:     q.int64Param("user_id"),
		ClientID:   q.int64Param("client_id"),
		Status:     queryEnum(&q, models.ProjectStatuses, "status_filter", "status"),
		ActiveOnly: q.boolParam("active_only"),
	}
	return f.Conditions(), q.err
}

func campaignFilter(ctx *gin.Context) ([]schema.Condition, error) {
	q := query{ctx: ctx}
	f := service.CampaignFilter{
		ProjectID:  q.int64Param("project_id"),
		Status:     queryEnum(&q, models.CampaignStatuses, "status_filter", "status"),
		ActiveOnly: q.boolParam("active_only"),
	}
	return f.Conditions(), q.err
}

func itemFilter(ctx *gin.Context) ([]schema.Condition, error) {
	q := query{ctx: ctx}
	f := service.ItemFilter{
		CampaignID: q.int64Param("campaign_id"),
		Name:       q.str("name"),
	}
	return f.Conditions(), q.err
}

func quoteFilter(ctx *gin.Context) ([]schema.Condition, error) {
	q := query{ctx: ctx}
	f := service.QuoteFilter{
		ItemID:       q.int64Param("item_id"),
		CraftsmanID:  q.int64Param("craftsman_id"),
		Status:       queryEnum(&q, models.QuoteStatuses, "status_filter", "status"),
		PendingOnly:  q.boolParam("pending_only"),
		ApprovedOnly: q.boolParam("approved_only"),
	}
	return f.Conditions(), q.err
}

func taskFilter(ctx *gin.Context) ([]schema.Condition, error) {
	q := query{ctx: ctx}
	f := service.TaskFilter{
		ProjectID:      q.int64Param("project_id"),
		AssignedUserID: q.int64Param("user_id", "assigned_user_id"),
		Status:         queryEnum(&q, models.TaskStatuses, "status_filter", "status"),
		Priority:       queryEnum(&q, models.TaskPriorities, "priority_filter", "priority"),
		TodoOnly:       q.boolParam("todo_only"),
		InProgressOnly: q.boolParam("in_progress_only"),
		UnassignedOnly: q.boolParam("unassigned_only"),
	}
	return f.Conditions(), q.err
}

func queryInt64(ctx *gin.Context, name string) (*int64, error) {
	q := query{ctx: ctx}
	v := q.int64Param(name)
	return v, q.err
}
