package server

import (
	"errors"
	"net/http"
	"sort"

	"github.com/JustAGhosT/home-lab-setup-sub006/deploy"
)

type deployRequest struct {
	Component  string            `json:"component"`
	Background bool              `json:"background"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

type deployResponse struct {
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleDeploy(w http.ResponseWriter, r *http.Request) {
	var req deployRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	component, err := deploy.ParseComponent(req.Component)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	params := deploy.NewParamSet(s.cfg)
	// Extra parameters appended in a stable order.
	keys := make([]string, 0, len(req.Parameters))
	for k := range req.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		params = params.With(k, req.Parameters[k])
	}

	if req.Background {
		job, err := s.dispatcher.DeployBackground(r.Context(), component, params)
		if err != nil {
			writeError(w, deployErrStatus(err), err)
			return
		}
		writeJSON(w, http.StatusAccepted, job.Snapshot())
		return
	}

	res, err := s.dispatcher.Deploy(r.Context(), component, params)
	if err != nil {
		writeJSON(w, http.StatusOK, deployResponse{Success: false, Output: res.Output, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, deployResponse{Success: true, Output: res.Output})
}

func deployErrStatus(err error) int {
	if errors.Is(err, deploy.ErrUnknownComponent) || errors.Is(err, deploy.ErrTemplateNotFound) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
