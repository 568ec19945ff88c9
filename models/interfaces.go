package models

import "context"

// Collaborator is the external model call: a prompt in, free-form or
// structured text out. Implementations own transport, auth and timeouts.
type Collaborator interface {
	Call(ctx context.Context, prompt string) (string, error)
}

// RecordStore is an append-only log of forecast records. Load returns an
// empty history when the backing store does not exist yet; Append must
// serialize concurrent writers.
type RecordStore interface {
	Load() ([]ForecastRecord, error)
	Append(record ForecastRecord) error
}
