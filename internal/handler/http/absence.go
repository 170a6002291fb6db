package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/totodo713/miometory-sub002/internal/domain/absence"
	"github.com/totodo713/miometory-sub002/internal/handler/http/middleware"
	"github.com/totodo713/miometory-sub002/internal/handler/http/response"
	absenceservice "github.com/totodo713/miometory-sub002/internal/service/absence"
)

type AbsenceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type AbsenceHandlerImpl struct {
	service *absenceservice.Service
}

func NewAbsenceHandler(service *absenceservice.Service) AbsenceHandler {
	return &AbsenceHandlerImpl{service: service}
}

func (h *AbsenceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req absence.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateAbsence decode error", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format", nil)
		return
	}
	req.RecordedBy = middleware.MemberID(r)

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/absence/"+created.ID)
	setETag(w, created.Version)
	response.Created(w, "Absence entry created", absence.NewEntryResponse(created))
}

func (h *AbsenceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	setETag(w, e.Version)
	response.Success(w, absence.NewEntryResponse(e))
}

func (h *AbsenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := absence.ListEntriesFilter{
		MemberID:    queryString(r, "member_id"),
		AbsenceType: queryString(r, "absence_type"),
		Status:      queryString(r, "status"),
		DateFrom:    queryDate(r, "date_from"),
		DateTo:      queryDate(r, "date_to"),
	}
	filter.Page, filter.Limit = pagination(r)

	entries, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, absence.NewEntryResponses(entries), listMeta(filter.Page, filter.Limit, total))
}

func (h *AbsenceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req absence.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateAbsence decode error", "error", err)
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
	response.Success(w, absence.NewEntryResponse(updated))
}

func (h *AbsenceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}
