// Package job models carrier-sized delivery jobs and the Ledger that owns
// their identity, state machine and dispatch queue.
//
// A job is Planned when the planner commits it, Assigned when dequeued for a
// carrier, InTransit once the carrier leaves, and is removed from the ledger
// when it completes or fails. Ledger notifications (started, completed,
// failed) are the native hook the event service translates into its streams.
package job
