package jobs

import (
	"context"
	"log/slog"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// SnapshotSaver writes a slot.
type SnapshotSaver interface {
	Save(ctx context.Context, cmd commands.SaveSnapshotCommand) error
}

// AutosaveJob saves the transport state to one slot on a cron schedule.
type AutosaveJob struct {
	saver  SnapshotSaver
	spec   string
	cmd    commands.SaveSnapshotCommand
	cron   *cron.Cron
	logger *slog.Logger
}

// NewAutosaveJob accepts standard five-field cron specs and descriptors such
// as "@every 5m".
func NewAutosaveJob(saver SnapshotSaver, spec, slot string, logger *slog.Logger) (*AutosaveJob, error) {
	if saver == nil {
		return nil, errs.NewValueIsRequiredError("saver")
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("autosave schedule", err)
	}
	cmd, err := commands.NewSaveSnapshotCommand(slot)
	if err != nil {
		return nil, err
	}

	return &AutosaveJob{
		saver:  saver,
		spec:   spec,
		cmd:    cmd,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger.With("component", "autosave_job", "slot", slot),
	}, nil
}

// Start registers the cron schedule and starts the scheduler. An invalid
// schedule is returned as is.
func (j *AutosaveJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Autosave job started", "schedule", j.spec)
	return nil
}

// Stop halts the scheduler and waits for a running save to finish.
func (j *AutosaveJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Autosave job stopped")
}

// RunOnce writes one snapshot to the configured slot. A failed save is logged
// and retried on the next schedule.
func (j *AutosaveJob) RunOnce(ctx context.Context) {
	if err := j.saver.Save(ctx, j.cmd); err != nil {
		j.logger.ErrorContext(ctx, "Autosave failed", "error", err)
		return
	}
	j.logger.DebugContext(ctx, "Autosave written")
}
