package job

import (
	"errors"
	"fmt"
	"slices"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

var (
	// ErrJobIsRetired is returned when adding a job whose id already completed or failed.
	ErrJobIsRetired = errors.New("job id was already retired")
	// ErrJobAlreadyExists is returned when adding a job whose id is live.
	ErrJobAlreadyExists = errors.New("job id already exists")
)

// NotificationKind tells ledger subscribers what happened to a job.
type NotificationKind int

const (
	NotifyStarted NotificationKind = iota + 1
	NotifyCompleted
	NotifyFailed
)

func (k NotificationKind) String() string {
	switch k {
	case NotifyStarted:
		return "started"
	case NotifyCompleted:
		return "completed"
	case NotifyFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Notification is emitted synchronously after the ledger changed state.
// Delivered is set only for NotifyCompleted.
type Notification struct {
	Kind      NotificationKind
	Job       *Job
	Delivered int
}

type listener struct {
	id int
	fn func(Notification)
}

// Ledger owns job identity, status transitions and the FIFO dispatch queue.
//
// The ledger does no locking: it is mutated only from the coordinator, which
// serializes access. Lookups by unknown id are no-ops that report false.
//
// Finalized jobs are removed immediately and their ids remembered, so a
// stale queue entry is skipped on dequeue and an id is never re-added.
type Ledger struct {
	jobs    map[ID]*Job
	queue   []ID
	retired map[ID]struct{}
	lastID  ID

	listeners  []listener
	listenerID int
}

// NewLedger returns an empty ledger whose first allocated id is 1.
func NewLedger() *Ledger {
	return &Ledger{
		jobs:    make(map[ID]*Job),
		retired: make(map[ID]struct{}),
	}
}

// NextID allocates a fresh job id.
func (l *Ledger) NextID() ID {
	l.lastID++
	return l.lastID
}

// AddJob inserts j as Planned and appends it to the queue.
func (l *Ledger) AddJob(j *Job) error {
	if err := j.Validate(); err != nil {
		return err
	}
	if _, ok := l.retired[j.id]; ok {
		return fmt.Errorf("%w: %d", ErrJobIsRetired, j.id)
	}
	if _, ok := l.jobs[j.id]; ok {
		return fmt.Errorf("%w: %d", ErrJobAlreadyExists, j.id)
	}

	j.status = Planned
	j.carrier = nil
	l.jobs[j.id] = j
	l.queue = append(l.queue, j.id)
	l.observeID(j.id)
	return nil
}

// DequeueNext pops the first queued job that is still Planned, marks it
// Assigned and returns it. Stale entries are dropped. At most the number of
// entries present at call time are examined.
func (l *Ledger) DequeueNext() (*Job, bool) {
	for range len(l.queue) {
		id := l.queue[0]
		l.queue = l.queue[1:]

		j, ok := l.jobs[id]
		if !ok || j.status != Planned {
			continue
		}
		if err := j.transition(Status.Assign); err != nil {
			continue
		}
		return j, true
	}
	return nil, false
}

// Requeue moves an Assigned or InTransit job back to Planned, clears its
// carrier and appends it to the queue.
func (l *Ledger) Requeue(id ID) bool {
	j, ok := l.jobs[id]
	if !ok {
		return false
	}
	if err := j.transition(Status.Requeue); err != nil {
		return false
	}
	j.carrier = nil
	l.queue = append(l.queue, id)
	return true
}

// ResetAllToPlanned turns every live job back into a queued Planned job.
// The existing queue order is kept for jobs already in it; the rest follow
// in id order. Used once after a load, since carriers are not persisted.
func (l *Ledger) ResetAllToPlanned() {
	queued := make(map[ID]struct{}, len(l.jobs))
	queue := make([]ID, 0, len(l.jobs))

	for _, id := range l.queue {
		if _, ok := l.jobs[id]; !ok {
			continue
		}
		if _, dup := queued[id]; dup {
			continue
		}
		queued[id] = struct{}{}
		queue = append(queue, id)
	}

	for _, id := range l.sortedIDs() {
		j := l.jobs[id]
		j.status = Planned
		j.carrier = nil
		if _, ok := queued[id]; !ok {
			queue = append(queue, id)
		}
	}

	l.queue = queue
}

// MarkStarted moves an Assigned job to InTransit and records its carrier.
func (l *Ledger) MarkStarted(id ID, carrier kernel.UUID) bool {
	j, ok := l.jobs[id]
	if !ok {
		return false
	}
	if err := j.transition(Status.Start); err != nil {
		return false
	}
	j.carrier = &carrier
	l.notify(Notification{Kind: NotifyStarted, Job: j})
	return true
}

// MarkCompleted finalizes a live job as Completed and removes it.
func (l *Ledger) MarkCompleted(id ID, delivered int) bool {
	j, ok := l.finalize(id, Status.Complete)
	if !ok {
		return false
	}
	l.notify(Notification{Kind: NotifyCompleted, Job: j, Delivered: delivered})
	return true
}

// MarkFailed finalizes a live job as Failed and removes it.
func (l *Ledger) MarkFailed(id ID) bool {
	j, ok := l.finalize(id, Status.Fail)
	if !ok {
		return false
	}
	l.notify(Notification{Kind: NotifyFailed, Job: j})
	return true
}

// CancelForEntity fails every live job whose supplier or target is ref and
// returns them in id order. Each failed job emits one NotifyFailed. Failed
// jobs keep their carrier, so listeners can tell a picked-up job apart.
func (l *Ledger) CancelForEntity(ref kernel.EntityRef) []*Job {
	if ref.IsNone() {
		return nil
	}

	var failed []*Job
	for _, id := range l.sortedIDs() {
		j := l.jobs[id]
		if !j.Touches(ref) {
			continue
		}
		if l.MarkFailed(id) {
			failed = append(failed, j)
		}
	}
	return failed
}

// Get returns a live job.
func (l *Ledger) Get(id ID) (*Job, bool) {
	j, ok := l.jobs[id]
	return j, ok
}

// Jobs returns the live jobs ordered by id.
func (l *Ledger) Jobs() []*Job {
	out := make([]*Job, 0, len(l.jobs))
	for _, id := range l.sortedIDs() {
		out = append(out, l.jobs[id])
	}
	return out
}

// QueueOrder returns the ids of queued Planned jobs, head first, without stale entries.
func (l *Ledger) QueueOrder() []ID {
	seen := make(map[ID]struct{}, len(l.queue))
	out := make([]ID, 0, len(l.queue))
	for _, id := range l.queue {
		j, ok := l.jobs[id]
		if !ok || j.status != Planned {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Len returns the number of live jobs.
func (l *Ledger) Len() int {
	return len(l.jobs)
}

// Clear drops every job, queue entry and retired id. Id allocation keeps
// counting from where it was.
func (l *Ledger) Clear() {
	l.jobs = make(map[ID]*Job)
	l.retired = make(map[ID]struct{})
	l.queue = nil
}

// Restore inserts a persisted job with its stored status, without queueing
// it and without notifications. Pair with SetQueueOrder.
func (l *Ledger) Restore(j *Job) error {
	if err := j.Validate(); err != nil {
		return err
	}
	if !j.status.IsLive() {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%s job cannot be restored", j.status))
	}
	if _, ok := l.jobs[j.id]; ok {
		return fmt.Errorf("%w: %d", ErrJobAlreadyExists, j.id)
	}
	delete(l.retired, j.id)
	l.jobs[j.id] = j
	l.observeID(j.id)
	return nil
}

// SetQueueOrder replaces the queue with ids, dropping unknown ones.
func (l *Ledger) SetQueueOrder(ids []ID) {
	queue := make([]ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := l.jobs[id]; ok {
			queue = append(queue, id)
		}
	}
	l.queue = queue
}

// Subscribe registers fn for ledger notifications. The returned cancel
// function is idempotent.
func (l *Ledger) Subscribe(fn func(Notification)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	l.listenerID++
	id := l.listenerID
	l.listeners = append(l.listeners, listener{id: id, fn: fn})

	return func() {
		l.listeners = slices.DeleteFunc(l.listeners, func(ls listener) bool {
			return ls.id == id
		})
	}
}

func (l *Ledger) finalize(id ID, next func(Status) (Status, error)) (*Job, bool) {
	j, ok := l.jobs[id]
	if !ok {
		return nil, false
	}
	if err := j.transition(next); err != nil {
		return nil, false
	}
	delete(l.jobs, id)
	l.retired[id] = struct{}{}
	return j, true
}

func (l *Ledger) notify(n Notification) {
	// Listeners may unsubscribe while being notified.
	for _, ls := range slices.Clone(l.listeners) {
		ls.fn(n)
	}
}

func (l *Ledger) observeID(id ID) {
	if id > l.lastID {
		l.lastID = id
	}
}

func (l *Ledger) sortedIDs() []ID {
	ids := make([]ID, 0, len(l.jobs))
	for id := range l.jobs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
