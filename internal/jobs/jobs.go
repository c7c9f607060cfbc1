// Package jobs schedules the portal's periodic maintenance work.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	CleanupSchedule = "@every 12h"
	ReindexSchedule = "@daily"

	jobTimeout = 10 * time.Minute
)

type Cleaner interface {
	CleanupOrphanUploads(ctx context.Context) (int, error)
}

type Reindexer interface {
	Reindex(ctx context.Context) error
}

// Job is one named unit of scheduled work.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

type Scheduler struct {
	cron *cron.Cron
	jobs []Job
}

func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Register schedules j. Runs never overlap with a previous run of the same job.
func (s *Scheduler) Register(j Job) error {
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(cron.FuncJob(func() {
		s.run(j)
	}))
	if _, err := s.cron.AddJob(j.Schedule, wrapped); err != nil {
		return fmt.Errorf("jobs: schedule %s: %w", j.Name, err)
	}
	s.jobs = append(s.jobs, j)
	log.Printf("[Jobs] %s scheduled: %s", j.Name, j.Schedule)
	return nil
}

func (s *Scheduler) run(j Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := j.Run(ctx); err != nil {
		log.Printf("[Jobs] %s failed: %v", j.Name, err)
	}
}

// RunNow executes the named job synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	for _, j := range s.jobs {
		if j.Name == name {
			return j.Run(ctx)
		}
	}
	return fmt.Errorf("jobs: no job named %q", name)
}

func (s *Scheduler) Names() []string {
	names := make([]string, len(s.jobs))
	for i, j := range s.jobs {
		names[i] = j.Name
	}
	return names
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("[Jobs] scheduler started with %d jobs", len(s.jobs))
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// CleanupJob removes uploads that never got attached to content.
func CleanupJob(c Cleaner) Job {
	return Job{
		Name:     "orphan-upload-cleanup",
		Schedule: CleanupSchedule,
		Run: func(ctx context.Context) error {
			n, err := c.CleanupOrphanUploads(ctx)
			if err != nil {
				return err
			}
			log.Printf("[Jobs] removed %d orphan uploads", n)
			return nil
		},
	}
}

func ReindexJob(r Reindexer) Job {
	return Job{
		Name:     "search-reindex",
		Schedule: ReindexSchedule,
		Run:      r.Reindex,
	}
}
