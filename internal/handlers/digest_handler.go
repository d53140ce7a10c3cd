package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/briefing/internal/interfaces"
	"github.com/ternarybob/briefing/internal/services/digest"
)

// DigestHandler exposes the digest run over HTTP. POST runs a single-target
// digest and requires an email; GET runs the full batch, optionally scoped
// to an email query parameter. Both respond with the RunResult: run-level
// failure is reported through the ok flag, not the HTTP status.
type DigestHandler struct {
	runner    *digest.Runner
	scheduler interfaces.SchedulerService
	logger    arbor.ILogger
}

// NewDigestHandler creates a new digest handler.
func NewDigestHandler(runner *digest.Runner, scheduler interfaces.SchedulerService, logger arbor.ILogger) *DigestHandler {
	return &DigestHandler{
		runner:    runner,
		scheduler: scheduler,
		logger:    logger,
	}
}

type runRequest struct {
	Email string `json:"email"`
}

// RunHandler triggers a digest run synchronously.
func (h *DigestHandler) RunHandler(w http.ResponseWriter, r *http.Request) {
	var targetEmail string

	switch r.Method {
	case http.MethodPost:
		var req runRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			WriteError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		targetEmail = strings.TrimSpace(req.Email)
		if targetEmail == "" {
			targetEmail = strings.TrimSpace(r.URL.Query().Get("email"))
		}
		if targetEmail == "" {
			WriteError(w, http.StatusBadRequest, "email is required")
			return
		}
	case http.MethodGet:
		targetEmail = strings.TrimSpace(r.URL.Query().Get("email"))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result := h.runner.Run(r.Context(), targetEmail)

	WriteJSON(w, http.StatusOK, result)
}

// StatusHandler returns the scheduling state of the digest job.
func (h *DigestHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, h.scheduler.GetAllJobStatuses())
}
