package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/totodo713/miometory-sub002/internal/domain/worklog"
	"github.com/totodo713/miometory-sub002/internal/handler/http/middleware"
	"github.com/totodo713/miometory-sub002/internal/handler/http/response"
	worklogservice "github.com/totodo713/miometory-sub002/internal/service/worklog"
)

type WorkLogHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type WorkLogHandlerImpl struct {
	service *worklogservice.Service
}

func NewWorkLogHandler(service *worklogservice.Service) WorkLogHandler {
	return &WorkLogHandlerImpl{service: service}
}

func (h *WorkLogHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req worklog.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateWorkLog decode error", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format", nil)
		return
	}
	req.EnteredBy = middleware.MemberID(r)

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/worklog/"+created.ID)
	setETag(w, created.Version)
	response.Created(w, "Work log entry created", worklog.NewEntryResponse(created))
}

func (h *WorkLogHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	setETag(w, e.Version)
	response.Success(w, worklog.NewEntryResponse(e))
}

func (h *WorkLogHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := worklog.ListEntriesFilter{
		MemberID:  queryString(r, "member_id"),
		ProjectID: queryString(r, "project_id"),
		Status:    queryString(r, "status"),
		DateFrom:  queryDate(r, "date_from"),
		DateTo:    queryDate(r, "date_to"),
	}
	filter.Page, filter.Limit = pagination(r)

	entries, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, worklog.NewEntryResponses(entries), listMeta(filter.Page, filter.Limit, total))
}

func (h *WorkLogHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req worklog.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateWorkLog decode error", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ExpectedVersion = ifMatchVersion(r)

	updated, err := h.service.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	setETag(w, updated.Version)
	response.Success(w, worklog.NewEntryResponse(updated))
}

func (h *WorkLogHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *WorkLogHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	memberID := r.URL.Query().Get("member_id")
	if memberID == "" {
		memberID = middleware.MemberID(r)
	}
	from := queryDate(r, "date_from")
	to := queryDate(r, "date_to")
	if memberID == "" || from == nil || to == nil {
		response.BadRequest(w, "BAD_REQUEST", "member_id, date_from and date_to are required", nil)
		return
	}

	totals, err := h.service.Summary(r.Context(), memberID, *from, *to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, totals)
}

func setETag(w http.ResponseWriter, version int64) {
	w.Header().Set("ETag", fmt.Sprintf("%q", strconv.FormatInt(version, 10)))
}

// ifMatchVersion returns nil when the header is absent or unparsable; the
// service treats nil as a missing version token.
func ifMatchVersion(r *http.Request) *int64 {
	raw := strings.TrimSpace(r.Header.Get("If-Match"))
	if raw == "" {
		return nil
	}
	raw = strings.Trim(raw, `"`)
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &version
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

func queryDate(r *http.Request, key string) *time.Time {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return &d
}

func pagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func listMeta(page, limit int, total int64) *response.Meta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
