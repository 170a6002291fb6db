package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/totodo713/miometory-sub002/internal/domain/approval"
	"github.com/totodo713/miometory-sub002/internal/handler/http/middleware"
	"github.com/totodo713/miometory-sub002/internal/handler/http/response"
	approvalservice "github.com/totodo713/miometory-sub002/internal/service/approval"
)

type ApprovalHandler interface {
	SubmitMonth(w http.ResponseWriter, r *http.Request)
	GetSubmission(w http.ResponseWriter, r *http.Request)
	ListSubmissions(w http.ResponseWriter, r *http.Request)
	ApproveSubmission(w http.ResponseWriter, r *http.Request)
	RejectSubmission(w http.ResponseWriter, r *http.Request)

	SubmitEntries(w http.ResponseWriter, r *http.Request)
	ApproveEntries(w http.ResponseWriter, r *http.Request)
	RejectEntry(w http.ResponseWriter, r *http.Request)
	RecallApproval(w http.ResponseWriter, r *http.Request)
}

type ApprovalHandlerImpl struct {
	service *approvalservice.Service
}

func NewApprovalHandler(service *approvalservice.Service) ApprovalHandler {
	return &ApprovalHandlerImpl{service: service}
}

func (h *ApprovalHandlerImpl) SubmitMonth(w http.ResponseWriter, r *http.Request) {
	var req approval.SubmitMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitMonth decode error", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format", nil)
		return
	}
	req.SubmittedBy = middleware.MemberID(r)

	created, err := h.service.SubmitMonth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/submissions/"+created.ID)
	response.Created(w, "Monthly submission created", approval.NewSubmissionResponse(created))
}

func (h *ApprovalHandlerImpl) GetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.GetSubmission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, approval.NewSubmissionResponse(sub))
}

func (h *ApprovalHandlerImpl) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	filter := approval.ListSubmissionsFilter{
		MemberID: queryString(r, "member_id"),
		Status:   queryString(r, "status"),
	}
	filter.Page, filter.Limit = pagination(r)

	subs, total, err := h.service.ListSubmissions(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, approval.NewSubmissionResponses(subs), listMeta(filter.Page, filter.Limit, total))
}

func (h *ApprovalHandlerImpl) ApproveSubmission(w http.ResponseWriter, r *http.Request) {
	req := approval.ReviewSubmissionRequest{
		SubmissionID: chi.URLParam(r, "id"),
		ReviewedBy:   middleware.MemberID(r),
	}

	reviewed, err := h.service.ApproveSubmission(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, approval.NewSubmissionResponse(reviewed))
}

func (h *ApprovalHandlerImpl) RejectSubmission(w http.ResponseWriter, r *http.Request) {
	var req approval.ReviewSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RejectSubmission decode error", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format", nil)
		return
	}
	req.SubmissionID = chi.URLParam(r, "id")
	req.ReviewedBy = middleware.MemberID(r)

	reviewed, err := h.service.RejectSubmission(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, approval.NewSubmissionResponse(reviewed))
}

func (h *ApprovalHandlerImpl) SubmitEntries(w http.ResponseWriter, r *http.Request) {
	var req approval.SubmitEntriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitEntries decode error", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format", nil)
		return
	}

	created, err := h.service.SubmitEntries(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Entries submitted for review", approval.NewApprovalResponses(created))
}

func (h *ApprovalHandlerImpl) ApproveEntries(w http.ResponseWriter, r *http.Request) {
	var req approval.ApproveEntriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ApproveEntries decode error", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format", nil)
		return
	}
	req.ApprovedBy = middleware.MemberID(r)

	approved, err := h.service.ApproveEntries(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, approval.NewApprovalResponses(approved))
}

func (h *ApprovalHandlerImpl) RejectEntry(w http.ResponseWriter, r *http.Request) {
	var req approval.RejectEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RejectEntry decode error", "error", err)
		response.BadRequest(w, "BAD_REQUEST", "Invalid request format", nil)
		return
	}
	req.RejectedBy = middleware.MemberID(r)

	rejected, err := h.service.RejectEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, approval.NewApprovalResponse(rejected))
}

func (h *ApprovalHandlerImpl) RecallApproval(w http.ResponseWriter, r *http.Request) {
	recalled, err := h.service.RecallApproval(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, approval.NewApprovalResponse(recalled))
}
