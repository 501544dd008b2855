package database

import "context"

// Connection is an open database handle. Repositories do not talk to it
// directly: the container unwraps the driver-specific handle (sqlite DB() or
// postgres Pool()) and hands it to the store implementations.
type Connection interface {
	// Driver returns the driver type for this connection.
	Driver() Driver
	// Ping verifies the connection is still alive.
	Ping(ctx context.Context) error
	// Close closes the database connection.
	Close() error
}
