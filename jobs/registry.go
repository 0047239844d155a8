package jobs

import (
	"sort"
	"strings"

	"github.com/JustAGhosT/home-lab-setup-sub006/store"
)

// Registry tracks all background units spawned by this process. Reads never
// mutate a job; removal happens only through an explicit Cleanup call.
type Registry struct {
	jobs *store.Store[*Job]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: store.New[*Job]()}
}

// Add registers a job handle.
func (r *Registry) Add(j *Job) {
	r.jobs.Put(j.ID(), j)
}

// Get retrieves a job by ID.
func (r *Registry) Get(id string) (*Job, bool) {
	return r.jobs.Get(id)
}

// List returns snapshots of all jobs whose name contains the filter
// (all jobs when the filter is empty), ordered by start time.
func (r *Registry) List(nameFilter string) []Status {
	matched := r.jobs.Filter(func(j *Job) bool {
		return nameFilter == "" || strings.Contains(j.Name(), nameFilter)
	})
	statuses := make([]Status, 0, len(matched))
	for _, j := range matched {
		statuses = append(statuses, j.Snapshot())
	}
	sort.Slice(statuses, func(i, k int) bool {
		if statuses[i].StartedAt.Equal(statuses[k].StartedAt) {
			return statuses[i].ID < statuses[k].ID
		}
		return statuses[i].StartedAt.Before(statuses[k].StartedAt)
	})
	return statuses
}

// Len returns the number of registered jobs.
func (r *Registry) Len() int {
	return r.jobs.Len()
}

// Cleanup removes all terminal jobs from the registry and returns their
// final snapshots. Running and queued jobs are left untouched.
func (r *Registry) Cleanup() []Status {
	pruned := r.jobs.PruneIf(func(_ string, j *Job) bool {
		return j.State().Terminal()
	})
	statuses := make([]Status, 0, len(pruned))
	for _, j := range pruned {
		statuses = append(statuses, j.Snapshot())
	}
	return statuses
}
