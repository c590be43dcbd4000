// Package coordinator ties the transport core to the world. It owns the job
// ledger, the order book, the supply index and the planner, moves carriers on
// every tick and turns arrivals, failures and destroyed entities into ledger
// updates.
package coordinator
