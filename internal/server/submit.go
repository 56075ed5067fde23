package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/guestbites/guestbites/internal/monitoring"
	"github.com/guestbites/guestbites/internal/submit"
)

const maxSubmitBody = 64 << 10

type submitResponse struct {
	Success      bool   `json:"success"`
	SubmissionID string `json:"submissionId"`
}

type submitFunc func(*Server, *http.Request, *submit.Submission) (*submit.Receipt, error)

func (s *Server) handleHostSubmit(w http.ResponseWriter, r *http.Request) {
	s.handleSubmit(w, r, "host", func(s *Server, r *http.Request, sub *submit.Submission) (*submit.Receipt, error) {
		return s.deps.Submitter.SubmitHost(r.Context(), sub)
	})
}

func (s *Server) handleHostGuideSubmit(w http.ResponseWriter, r *http.Request) {
	s.handleSubmit(w, r, "host_guide", func(s *Server, r *http.Request, sub *submit.Submission) (*submit.Receipt, error) {
		return s.deps.Submitter.SubmitGuide(r.Context(), sub)
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, route string, fn submitFunc) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmitBody))
	if err != nil {
		monitoring.Submissions.WithLabelValues(route, "invalid").Inc()
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	sub := &submit.Submission{}
	if len(body) > 0 {
		sub, err = submit.Parse(body)
		if err != nil {
			monitoring.Submissions.WithLabelValues(route, "invalid").Inc()
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	}

	receipt, err := fn(s, r, sub)
	var de *submit.DeliveryError
	switch {
	case errors.Is(err, submit.ErrMissingFields):
		monitoring.Submissions.WithLabelValues(route, "invalid").Inc()
		writeError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, submit.ErrNotConfigured):
		monitoring.Submissions.WithLabelValues(route, "not_configured").Inc()
		writeError(w, http.StatusInternalServerError, "Email delivery not configured")
	case errors.As(err, &de):
		monitoring.Submissions.WithLabelValues(route, "failed").Inc()
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Email failed", SubmissionID: de.SubmissionID})
	case err != nil:
		monitoring.Submissions.WithLabelValues(route, "failed").Inc()
		writeError(w, http.StatusInternalServerError, "Server error")
	default:
		result := "sent"
		if receipt.Discarded {
			result = "discarded"
		}
		monitoring.Submissions.WithLabelValues(route, result).Inc()
		writeJSON(w, http.StatusOK, submitResponse{Success: true, SubmissionID: receipt.SubmissionID})
	}
}
