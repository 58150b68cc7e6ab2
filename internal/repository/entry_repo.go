package repository

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"moodscale/internal/metrics"
	"moodscale/internal/model"
)

// EntryRepo is the append-only journal of logged entries.
// Implementations keep an in-memory mirror filled by Load and serve All
// from it; Append persists before the mirror is updated, so memory and the
// backing store stay equal after every successful call.
type EntryRepo interface {
	Load(ctx context.Context) ([]model.Entry, error)
	Append(ctx context.Context, entry *model.Entry) error
	All(ctx context.Context) ([]model.Entry, error)
}

// EntryRepoOptions are shared by every backend
type EntryRepoOptions struct {
	Logger logrus.FieldLogger
	// StrictLoad makes Load return *model.CorruptionError instead of
	// discarding undecodable data and starting empty.
	StrictLoad bool
}

func (o EntryRepoOptions) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

// entryLog is the in-memory mirror embedded by the backends
type entryLog struct {
	mu      sync.Mutex
	entries []model.Entry
}

// snapshot copies the current entries; caller must hold mu
func (l *entryLog) snapshot() []model.Entry {
	out := make([]model.Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Clone()
	}
	return out
}

func (l *entryLog) All(_ context.Context) ([]model.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot(), nil
}

// prepare normalizes an entry before it is persisted
func prepare(entry *model.Entry) model.Entry {
	e := entry.Clone()
	if e.Responses == nil {
		e.Responses = map[string]int{}
	}
	return e
}

// handleCorruption applies the load recovery policy. A nil return means the
// caller should continue with an empty journal.
func handleCorruption(opts EntryRepoOptions, cerr *model.CorruptionError) error {
	metrics.RecordStoreCorruption()
	if opts.StrictLoad {
		return cerr
	}
	opts.logger().
		WithField("source", cerr.Source).
		WithError(cerr.Err).
		Warn("entry data is corrupt or malformed, starting with an empty journal")
	return nil
}
