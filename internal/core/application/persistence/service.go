package persistence

import (
	"errors"
	"fmt"
	"log/slog"

	"logistics/internal/core/domain/model/deliveryorder"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/snapshot"
	"logistics/internal/pkg/errs"
)

// EntityResolver maps a persisted key back to a live entity. It returns false
// when the entity no longer exists.
type EntityResolver func(key snapshot.EntityKey) (kernel.EntityRef, bool)

// RestoreReport summarizes what RestoreState did with a snapshot.
type RestoreReport struct {
	Jobs           int
	Orders         int
	SkippedJobs    int
	SkippedOrders  int
	UnresolvedRefs int
}

// Service captures and restores the job ledger and the order book.
//
// Capture walks both ledgers; restore clears them and rebuilds them from a
// snapshot. Restore never touches job statuses beyond what the snapshot says:
// resetting jobs whose carriers were lost is the caller's decision.
type Service struct {
	ledger *job.Ledger
	book   *deliveryorder.Book
	logger *slog.Logger
}

// NewService binds the service to the ledgers it captures.
func NewService(ledger *job.Ledger, book *deliveryorder.Book, logger *slog.Logger) (*Service, error) {
	var errList []error
	if ledger == nil {
		errList = append(errList, errs.NewValueIsRequiredError("ledger"))
	}
	if book == nil {
		errList = append(errList, errs.NewValueIsRequiredError("book"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		ledger: ledger,
		book:   book,
		logger: logger.With("component", "persistence"),
	}, nil
}

// CaptureState snapshots every live job, the queue order and every delivery
// order. Routes are left for the caller to fill in.
func (s *Service) CaptureState() snapshot.Snapshot {
	snap := snapshot.Snapshot{SchemaVersion: snapshot.SchemaVersion}

	for _, j := range s.ledger.Jobs() {
		snap.Jobs = append(snap.Jobs, snapshot.Job{
			ID:           int64(j.ID()),
			OrderID:      int64(j.OrderID()),
			Resource:     j.Resource().String(),
			Quantity:     j.Quantity(),
			Cost:         j.Cost(),
			PricePerUnit: j.PricePerUnit(),
			Start:        snapshot.PositionOf(j.StartPosition()),
			Target:       snapshot.PositionOf(j.TargetPosition()),
			Status:       j.Status().String(),
			Supplier:     snapshot.KeyOf(j.Supplier()),
			Destination:  snapshot.KeyOf(j.Target()),
		})
	}

	for _, id := range s.ledger.QueueOrder() {
		snap.Queue = append(snap.Queue, int64(id))
	}

	for _, o := range s.book.Orders() {
		ids := make([]int64, 0, len(o.JobIDs()))
		for _, id := range o.JobIDs() {
			ids = append(ids, int64(id))
		}
		snap.Orders = append(snap.Orders, snapshot.Order{
			ID:           int64(o.ID()),
			Resource:     o.Resource().String(),
			ProductName:  o.ProductName(),
			Total:        o.Total(),
			Remaining:    o.Remaining(),
			Reserved:     o.Reserved(),
			PricePerUnit: o.PricePerUnit(),
			Status:       o.Status().String(),
			Accepted:     o.IsAccepted(),
			Destination:  snapshot.KeyOf(o.Destination()),
			JobIDs:       ids,
		})
	}

	return snap
}

// RestoreState replaces both ledgers with the content of snap.
//
// Rules:
//   - a snapshot newer than this build is refused and nothing is cleared
//   - jobs with an unknown status come back Planned
//   - finished jobs, duplicates and jobs that fail validation are skipped
//   - supplier and target keys that no longer resolve become kernel.NoEntity()
//   - order job lists keep only restored jobs, and reserved is recomputed
//     from them
//   - the queue follows snap.Queue exactly, ignoring unknown ids
func (s *Service) RestoreState(snap snapshot.Snapshot, resolve EntityResolver) (RestoreReport, error) {
	if snap.SchemaVersion > snapshot.SchemaVersion {
		return RestoreReport{}, errs.NewVersionIsInvalidErrorWithCause("schema_version",
			fmt.Errorf("snapshot version %d is newer than supported %d", snap.SchemaVersion, snapshot.SchemaVersion))
	}

	var report RestoreReport
	s.ledger.Clear()
	s.book.Clear()

	ref := func(key snapshot.EntityKey) kernel.EntityRef {
		if key.IsZero() {
			return kernel.NoEntity()
		}
		if resolve != nil {
			if r, ok := resolve(key); ok {
				return r
			}
		}
		report.UnresolvedRefs++
		return kernel.NoEntity()
	}

	for _, sj := range snap.Jobs {
		j, err := s.restoreJob(sj, ref)
		if err == nil {
			err = s.ledger.Restore(j)
		}
		if err != nil {
			report.SkippedJobs++
			s.logger.Warn("skipping job from snapshot", "job_id", sj.ID, "error", err)
			continue
		}
		report.Jobs++
	}

	queue := make([]job.ID, 0, len(snap.Queue))
	for _, id := range snap.Queue {
		queue = append(queue, job.ID(id))
	}
	s.ledger.SetQueueOrder(queue)

	for _, so := range snap.Orders {
		o, err := s.restoreOrder(so, ref)
		if err == nil {
			err = s.book.RegisterRestored(o)
		}
		if err != nil {
			report.SkippedOrders++
			s.logger.Warn("skipping delivery order from snapshot", "order_id", so.ID, "error", err)
			continue
		}
		report.Orders++
	}

	return report, nil
}

func (s *Service) restoreJob(sj snapshot.Job, ref func(snapshot.EntityKey) kernel.EntityRef) (*job.Job, error) {
	status, ok := job.ParseStatus(sj.Status)
	switch {
	case !ok:
		status = job.Planned
	case status.IsTerminal():
		return nil, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%s job is not live", status))
	}

	return job.RestoreJob(job.ID(sj.ID), job.Draft{
		OrderID:        kernel.OrderID(sj.OrderID),
		Resource:       kernel.ResourceID(sj.Resource),
		Quantity:       sj.Quantity,
		Cost:           sj.Cost,
		PricePerUnit:   sj.PricePerUnit,
		StartPosition:  sj.Start.Kernel(),
		TargetPosition: sj.Target.Kernel(),
		Supplier:       ref(sj.Supplier),
		Target:         ref(sj.Destination),
	}, status, nil)
}

func (s *Service) restoreOrder(so snapshot.Order, ref func(snapshot.EntityKey) kernel.EntityRef) (*deliveryorder.DeliveryOrder, error) {
	var (
		ids      []job.ID
		reserved int
	)
	for _, raw := range so.JobIDs {
		id := job.ID(raw)
		if j, ok := s.ledger.Get(id); ok && int64(j.OrderID()) == so.ID {
			ids = append(ids, id)
			reserved += j.Quantity()
		}
	}

	status, ok := deliveryorder.ParseStatus(so.Status)
	if !ok || len(ids) != len(so.JobIDs) {
		// Recomputed from remaining and the surviving job list.
		status = deliveryorder.Unknown
	}

	id := kernel.OrderID(so.ID)
	return deliveryorder.RestoreDeliveryOrder(deliveryorder.Demand{
		OrderID:      id,
		Resource:     kernel.ResourceID(so.Resource),
		ProductName:  so.ProductName,
		Total:        so.Total,
		Remaining:    so.Remaining,
		PricePerUnit: so.PricePerUnit,
		Accepted:     so.Accepted,
		Destination:  ref(so.Destination),
	}, reserved, status, ids)
}
