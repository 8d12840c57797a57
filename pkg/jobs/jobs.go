// Package jobs provides the periodic work of long running commands.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/upac/pokerbots/pkg/cron"
)

// Job is a job that can be registered with the scheduler.
type Job struct {
	ID     int
	Runner Runner
}

// Runner is a job runner.
type Runner interface {
	Spec(context.Context) string
	Func(context.Context) func()
}

var runCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pokerbots",
	Subsystem: "jobs",
	Name:      "runs_total",
	Help:      "The total number of job runs",
}, []string{"job", "status"})

// Registry holds named jobs.
type Registry struct {
	mtx  sync.Mutex
	jobs map[string]*Job
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Register registers a job.
func (r *Registry) Register(name string, runner Runner) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.jobs[name] = &Job{Runner: runner}
}

// List returns a copy of the registered jobs.
func (r *Registry) List() map[string]*Job {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	jobs := make(map[string]*Job, len(r.jobs))
	for name, j := range r.jobs {
		jobs[name] = j
	}
	return jobs
}

// Schedule adds every registered job to s, in name order.
func (r *Registry) Schedule(ctx context.Context, s *cron.Scheduler) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	names := make([]string, 0, len(r.jobs))
	for name := range r.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	logger := log.FromContext(ctx).WithPrefix("jobs")
	for _, name := range names {
		j := r.jobs[name]
		spec := j.Runner.Spec(ctx)
		id, err := s.AddFunc(spec, j.Runner.Func(ctx))
		if err != nil {
			return fmt.Errorf("schedule job %q: %w", name, err)
		}
		j.ID = id
		logger.Debug("scheduled job", "name", name, "spec", spec, "id", id)
	}
	return nil
}

func record(job string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	runCounter.WithLabelValues(job, status).Inc()
}
