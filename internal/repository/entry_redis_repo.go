package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"moodscale/internal/model"
)

type entryRedisRepo struct {
	entryLog
	client *redis.Client
	key    string
	opts   EntryRepoOptions
}

// NewEntryRedisRepo stores entries as JSON values in a Redis list
func NewEntryRedisRepo(client *redis.Client, key string, opts EntryRepoOptions) EntryRepo {
	return &entryRedisRepo{
		client: client,
		key:    key,
		opts:   opts,
	}
}

func (r *entryRedisRepo) Load(ctx context.Context) ([]model.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil

	values, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.key, err)
	}

	entries := make([]model.Entry, 0, len(values))
	for i, v := range values {
		var e model.Entry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			cerr := &model.CorruptionError{Source: fmt.Sprintf("redis list %s[%d]", r.key, i), Err: err}
			if herr := handleCorruption(r.opts, cerr); herr != nil {
				return nil, herr
			}
			// Move the bad list aside so later appends do not mix with it
			if err := r.quarantine(ctx); err != nil {
				return nil, err
			}
			return r.snapshot(), nil
		}
		entries = append(entries, e)
	}

	r.entries = entries
	r.opts.logger().WithField("key", r.key).WithField("entries", len(entries)).Info("journal loaded")
	return r.snapshot(), nil
}

func (r *entryRedisRepo) quarantine(ctx context.Context) error {
	target := fmt.Sprintf("%s:corrupt:%d", r.key, time.Now().Unix())
	if err := r.client.Rename(ctx, r.key, target).Err(); err != nil {
		return fmt.Errorf("failed to quarantine %s: %w", r.key, err)
	}
	r.opts.logger().WithField("key", target).Warn("corrupt journal moved aside")
	return nil
}

func (r *entryRedisRepo) Append(ctx context.Context, entry *model.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := prepare(entry)
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}
	if err := r.client.RPush(ctx, r.key, data).Err(); err != nil {
		return fmt.Errorf("failed to append to %s: %w", r.key, err)
	}
	r.entries = append(r.entries, e)
	return nil
}
