package port

import "time"

type Sink interface {
	// Timestamped line for one framework event
	WriteLine(ts time.Time, line string) error
	// Normal newline (for logs)
	NewLine() error
}
