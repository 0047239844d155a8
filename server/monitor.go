package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"time"

	"github.com/JustAGhosT/home-lab-setup-sub006/deploy"
	"github.com/JustAGhosT/home-lab-setup-sub006/jobs"
	"github.com/JustAGhosT/home-lab-setup-sub006/monitor"
)

type monitorRequest struct {
	Component     string `json:"component"`
	ResourceName  string `json:"resource_name"`
	ResourceGroup string `json:"resource_group,omitempty"` // defaults to the configured group
	DesiredState  string `json:"desired_state,omitempty"`
	Interval      string `json:"interval,omitempty"` // Go duration string
	Timeout       string `json:"timeout,omitempty"`
}

func (s *Server) handleMonitorStart(w http.ResponseWriter, r *http.Request) {
	if s.poller == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no state querier configured"))
		return
	}

	var req monitorRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	component, err := deploy.ParseComponent(req.Component)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.ResourceName == "" {
		writeError(w, http.StatusBadRequest, errors.New("resource_name is required"))
		return
	}

	sess := monitor.Session{
		ResourceGroup: req.ResourceGroup,
		Component:     component,
		ResourceName:  req.ResourceName,
		DesiredState:  req.DesiredState,
	}
	if sess.ResourceGroup == "" {
		sess.ResourceGroup = s.cfg.ResourceGroup
	}
	if sess.DesiredState == "" {
		sess.DesiredState = monitor.ProvisioningSucceeded
	}
	if req.Interval != "" {
		d, err := time.ParseDuration(req.Interval)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid interval: %w", err))
			return
		}
		sess.PollInterval = d
	} else {
		sess.PollInterval = s.cfg.PollInterval
	}
	if req.Timeout != "" {
		d, err := time.ParseDuration(req.Timeout)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid timeout: %w", err))
			return
		}
		sess.Timeout = d
	} else {
		sess.Timeout = s.cfg.Timeout
	}

	// One uniquely named log file per session, so each poller is the
	// exclusive writer of its own file.
	sess.LogPath = filepath.Join(s.cfg.LogDir,
		fmt.Sprintf("monitor-%s-%s-%s.log", component, req.ResourceName, jobs.GenerateSuffix()))

	poller := s.poller
	job := s.runner.Start(context.Background(), "monitor-"+component.String(), func(ctx context.Context) (string, error) {
		outcome, err := poller.Run(ctx, sess)
		summary := fmt.Sprintf("%s %s: %s after %s (%d ticks, last observed %q)",
			component, req.ResourceName, outcome.State, outcome.Elapsed.Round(time.Second),
			outcome.Ticks, outcome.LastObserved)
		switch outcome.State {
		case monitor.StateSucceeded:
			return summary, nil
		case monitor.StateTimedOut:
			return summary, jobs.ErrTimedOut
		case monitor.StateError:
			return summary, err
		default:
			return summary, fmt.Errorf("provisioning ended in state %s", outcome.State)
		}
	})

	info := SessionInfo{
		JobID:         job.ID(),
		Component:     component.String(),
		ResourceName:  req.ResourceName,
		ResourceGroup: sess.ResourceGroup,
		DesiredState:  sess.DesiredState,
		LogPath:       sess.LogPath,
		StartedAt:     time.Now(),
	}
	s.sessions.Put(job.ID(), info)

	writeJSON(w, http.StatusAccepted, info)
}

func (s *Server) handleMonitorList(w http.ResponseWriter, _ *http.Request) {
	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, k int) bool {
		return sessions[i].StartedAt.Before(sessions[k].StartedAt)
	})
	writeJSON(w, http.StatusOK, sessions)
}
