// Package workers provides a small harness for the client's background
// workers. It defines the Worker interface and a Workers aggregate that runs
// several workers concurrently and waits for all of them to finish.
package workers

import "context"

// Worker is the interface implemented by background tasks. Run must block
// until ctx is cancelled and clean up before returning.
type Worker interface {
	Run(ctx context.Context)
}
