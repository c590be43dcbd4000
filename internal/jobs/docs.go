// Package jobs runs the scheduled background work of the transport service
// on github.com/robfig/cron/v3.
//
// # Available Jobs
//
//  1. TickJob advances the simulation on a fixed interval. The step passed
//     to the coordinator is the wall time since the previous tick, capped at
//     the configured maximum so a stalled process does not teleport carriers.
//  2. AutosaveJob writes the transport state to the autosave slot on a cron
//     schedule.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(tickJob, autosaveJob)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// Failed job starts stop the jobs that already started.
package jobs
