package server

import (
	"errors"
	"net/http"
)

func (s *Server) handleJobList(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("name")
	writeJSON(w, http.StatusOK, s.registry.List(filter))
}

func (s *Server) handleJobInspect(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("no such job: "+id))
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleJobCleanup(w http.ResponseWriter, _ *http.Request) {
	removed := s.registry.Cleanup()
	s.logger.Info().Int("removed", len(removed)).Msg("job registry cleaned up")
	writeJSON(w, http.StatusOK, map[string]any{
		"removed": len(removed),
		"jobs":    removed,
	})
}
