package server

// Server defines the lifecycle contract of the notes server process.
//
// Implementations are expected to block in [RunServer] until shutdown is
// requested and to release resources in [Shutdown].
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	// It returns an error only when the server could not be started.
	RunServer() error

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
