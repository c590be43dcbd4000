// Package route defines recurring supply routes owned by the coordinator.
package route
