// Package carrier models the trucks that execute jobs, manual transports and
// route trips. Movement is a pure function of speed and elapsed time.
package carrier
