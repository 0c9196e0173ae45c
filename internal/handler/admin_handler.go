package handler

import (
	"net/http"

	"github.com/bioedlabs/controlbench/internal/service"
)

// AdminHandler exposes operator-only introspection and cleanup. It is not
// part of the student workflow.
type AdminHandler struct {
	svc *service.SubmissionService
}

func NewAdminHandler(svc *service.SubmissionService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Diagnostics reports row counts and distinct session values.
// GET /api/v1/admin/diagnostics
func (h *AdminHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Diagnostics()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   d,
	})
}

// Analyze reports what each cleanup action would remove, without deleting.
// GET /api/v1/admin/cleanup
func (h *AdminHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Analyze()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "database analysis completed",
		"analysis": a,
	})
}

// Cleanup runs one cleanup action. delete-all requires the confirmation code.
// POST /api/v1/admin/cleanup
func (h *AdminHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action           string `json:"action"`
		ConfirmationCode string `json:"confirmationCode"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Cleanup(req.Action, req.ConfirmationCode)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  result,
	})
}
