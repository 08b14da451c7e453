package server

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/edualign/edualign/internal/matching"
	"github.com/edualign/edualign/internal/student"
)

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matching.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.logger.Debug("match request",
		zap.String("request_id", requestIDFrom(r.Context())),
		zap.Int("top_n", req.TopN),
		zap.Bool("has_profile", !req.Profile.IsEmpty()),
	)

	response, err := s.engine.Match(r.Context(), &req)
	if err != nil {
		var validation *student.ValidationError
		if errors.As(err, &validation) {
			s.respondError(w, http.StatusBadRequest, validation.Error())
			return
		}
		s.logger.Error("match pipeline failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
