package jobs

import (
	"fmt"
)

// Job is a scheduled background task.
type Job interface {
	Start() error
	Stop()
}

// JobManager starts and stops every scheduled job together. Nil jobs are
// skipped, so optional jobs such as autosave can be left out.
type JobManager struct {
	jobs    []Job
	started []Job
}

func NewJobManager(jobs ...Job) *JobManager {
	jm := &JobManager{}
	for _, j := range jobs {
		if j != nil && !isNilJob(j) {
			jm.jobs = append(jm.jobs, j)
		}
	}
	return jm
}

// StartAll starts jobs in order. If one fails, the jobs already started are
// stopped again.
func (jm *JobManager) StartAll() error {
	for i, j := range jm.jobs {
		if err := j.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start job %d (%T): %w", i, j, err)
		}
		jm.started = append(jm.started, j)
	}
	return nil
}

// StopAll stops started jobs in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
	}
	jm.started = nil
}

func isNilJob(j Job) bool {
	switch v := j.(type) {
	case *TickJob:
		return v == nil
	case *AutosaveJob:
		return v == nil
	default:
		return false
	}
}
