// Package events is the in-process notification layer of the transport core.
//
// The Bus translates the job ledger's and the planner's native hooks into a
// generic stream and four typed streams. Subscribers may be held weakly, so a
// forgotten game-entity subscriber never stays alive because of the bus.
package events
