package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"moodscale/internal/model"
)

type entryFileRepo struct {
	entryLog
	path string
	opts EntryRepoOptions
}

// NewEntryFileRepo stores entries as a single indented JSON array at path.
// Every append rewrites the whole file.
func NewEntryFileRepo(path string, opts EntryRepoOptions) EntryRepo {
	return &entryFileRepo{
		path: path,
		opts: opts,
	}
}

func (r *entryFileRepo) Load(_ context.Context) ([]model.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return r.snapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}

	var entries []model.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		if herr := handleCorruption(r.opts, &model.CorruptionError{Source: r.path, Err: err}); herr != nil {
			return nil, herr
		}
		return r.snapshot(), nil
	}

	r.entries = entries
	r.opts.logger().WithField("path", r.path).WithField("entries", len(entries)).Info("journal loaded")
	return r.snapshot(), nil
}

func (r *entryFileRepo) Append(_ context.Context, entry *model.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]model.Entry, len(r.entries), len(r.entries)+1)
	copy(next, r.entries)
	next = append(next, prepare(entry))

	if err := r.write(next); err != nil {
		return err
	}
	r.entries = next
	return nil
}

func (r *entryFileRepo) write(entries []model.Entry) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.path, err)
	}
	return nil
}
