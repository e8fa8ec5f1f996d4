// Package server wires and runs the application's HTTP server together with
// the background workers.
//
// It owns the process lifecycle: startup, signal handling, graceful shutdown
// of in-flight requests and cancellation of the workers.
package server
