package repository

import "context"

type SequenceRepository interface {
	// IncrementCounter advances the global counter server-side and returns the new value
	IncrementCounter(ctx context.Context) (int64, error)
}
