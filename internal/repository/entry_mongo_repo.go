package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moodscale/internal/model"
)

// EntriesCollection is the mongo collection holding the journal
const EntriesCollection = "entries"

// entryDocument adds the insertion sequence used for ordering
type entryDocument struct {
	Seq         int64 `bson:"seq"`
	model.Entry `bson:",inline"`
}

type entryMongoRepo struct {
	entryLog
	db         *mongo.Database
	collection *mongo.Collection
	opts       EntryRepoOptions
	seq        int64
}

// NewEntryMongoRepo stores entries as documents ordered by an insertion sequence
func NewEntryMongoRepo(db *mongo.Database, opts EntryRepoOptions) EntryRepo {
	return &entryMongoRepo{
		db:         db,
		collection: db.Collection(EntriesCollection),
		opts:       opts,
	}
}

func (r *entryMongoRepo) Load(ctx context.Context) ([]model.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.seq = 0

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []model.Entry
	var last int64
	for cursor.Next(ctx) {
		var doc entryDocument
		if err := cursor.Decode(&doc); err != nil {
			cerr := &model.CorruptionError{Source: r.db.Name() + "." + EntriesCollection, Err: err}
			if herr := handleCorruption(r.opts, cerr); herr != nil {
				return nil, herr
			}
			if err := r.quarantine(ctx); err != nil {
				return nil, err
			}
			return r.snapshot(), nil
		}
		entries = append(entries, doc.Entry)
		last = doc.Seq
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}

	r.entries = entries
	r.seq = last
	r.opts.logger().WithField("collection", EntriesCollection).WithField("entries", len(entries)).Info("journal loaded")
	return r.snapshot(), nil
}

func (r *entryMongoRepo) quarantine(ctx context.Context) error {
	target := fmt.Sprintf("%s_corrupt_%d", EntriesCollection, time.Now().Unix())
	cmd := bson.D{
		{Key: "renameCollection", Value: r.db.Name() + "." + EntriesCollection},
		{Key: "to", Value: r.db.Name() + "." + target},
	}
	if err := r.db.Client().Database("admin").RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("failed to quarantine %s: %w", EntriesCollection, err)
	}
	r.opts.logger().WithField("collection", target).Warn("corrupt journal moved aside")
	return nil
}

func (r *entryMongoRepo) Append(ctx context.Context, entry *model.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := prepare(entry)
	doc := entryDocument{Seq: r.seq + 1, Entry: e}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	r.seq = doc.Seq
	r.entries = append(r.entries, e)
	return nil
}
