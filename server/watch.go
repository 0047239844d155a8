package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JustAGhosT/home-lab-setup-sub006/jobs"
)

var watchUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleJobWatch upgrades to a websocket and streams the job's lifecycle
// transitions as JSON events. The first message is always the current
// snapshot; the stream ends after the terminal event.
func (s *Server) handleJobWatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("no such job: "+id))
		return
	}
	if s.bus == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("job events not available"))
		return
	}

	// Subscribe before reading the snapshot so no transition is missed
	// between the two.
	subID := id + "-" + jobs.GenerateSuffix()
	events := s.bus.Subscribe(subID)
	defer s.bus.Unsubscribe(subID)

	conn, err := watchUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	snap := job.Snapshot()
	first := jobs.Event{
		JobID:  snap.ID,
		Name:   snap.Name,
		State:  snap.State,
		Output: snap.Output,
		Time:   time.Now(),
	}
	if err := conn.WriteJSON(first); err != nil {
		return
	}
	if snap.State.Terminal() {
		return
	}

	for ev := range events {
		if ev.JobID != id {
			continue
		}
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
		if ev.State.Terminal() {
			return
		}
	}
}
