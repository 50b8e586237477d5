package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/markremodeling/renovation/internal/contact"
	"github.com/markremodeling/renovation/internal/httputil"
	"github.com/markremodeling/renovation/internal/ratelimit"
)

func (s *Server) contactHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]bool{"ok": true})
}

func (s *Server) submitContact(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ClientIP(r)
	if !s.contact.Allow(ip) {
		s.log.Info("contact rate limited", zap.String("ip", ip))
		httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]any{"ok": false, "error": "Too many requests"})
		return
	}

	var sub contact.Submission
	if err := httputil.DecodeJSON(r, &sub); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Bad JSON"})
		return
	}

	res, err := s.contact.Submit(r.Context(), ip, sub)
	switch {
	case errors.Is(err, contact.ErrMissingFields):
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Missing fields"})
		return
	case errors.Is(err, contact.ErrInvalidEmail):
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Invalid email"})
		return
	case errors.Is(err, contact.ErrTooLong):
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Message too long"})
		return
	case err != nil:
		s.log.Error("failed to store contact request", zap.Error(err))
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Failed to save message"})
		return
	}

	if res.Skipped {
		httputil.WriteJSONOK(w, map[string]bool{"ok": true, "skipped": true})
		return
	}
	httputil.WriteJSONOK(w, map[string]bool{"ok": true})
}
