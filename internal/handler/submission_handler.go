package handler

import (
	"net/http"
	"strconv"

	"github.com/bioedlabs/controlbench/internal/service"
	"github.com/bioedlabs/controlbench/internal/session"
)

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// Create stores one authored control column.
// POST /api/v1/submissions
func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.svc.Create(req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "control data submitted successfully",
		"data":    sub,
	})
}

// List returns a newest-first page of submissions, filtered by question
// and/or session token.
// GET /api/v1/submissions?questionId=&sessionId=&page=&limit=
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	questionID, _ := strconv.Atoi(q.Get("questionId"))
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	// share links can pick up stray whitespace around the token
	sessionID := session.Resolve(q.Get("sessionId"))

	subs, pagination, err := h.svc.List(questionID, sessionID, page, limit)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       subs,
		"pagination": pagination,
		"sessionId":  sessionID,
		"count":      len(subs),
	})
}

// Delete bulk-deletes submissions by id, used by the back-to-authoring
// recovery path to drop the batch just created.
// DELETE /api/v1/submissions
func (h *SubmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubmissionIDs []string `json:"submissionIds"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	deleted, err := h.svc.DeleteByIDs(req.SubmissionIDs)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "submissions deleted",
		"deletedCount": deleted,
	})
}
