package repository

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodscale/internal/model"
)

const testRedisKey = "moodscale:entries"

func newTestRedisRepo(t *testing.T, strict bool) (EntryRepo, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger, _ := test.NewNullLogger()
	return NewEntryRedisRepo(client, testRedisKey, EntryRepoOptions{Logger: logger, StrictLoad: strict}), mr, client
}

func TestEntryRedisRepoAppendAndReload(t *testing.T) {
	ctx := context.Background()
	repo, _, client := newTestRedisRepo(t, false)

	entries, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, repo.Append(ctx, sampleEntry("felicidad", 3, map[string]int{"q1": 2})))
	require.NoError(t, repo.Append(ctx, sampleEntry("felicidad", 5, map[string]int{"q1": 4})))

	n, err := client.LLen(ctx, testRedisKey).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	written, err := repo.All(ctx)
	require.NoError(t, err)

	restarted := NewEntryRedisRepo(client, testRedisKey, EntryRepoOptions{})
	loaded, err := restarted.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, written, loaded)
}

func TestEntryRedisRepoCorruptList(t *testing.T) {
	ctx := context.Background()
	repo, mr, _ := newTestRedisRepo(t, false)

	_, err := mr.Push(testRedisKey, `{"emotion":"ira","intensity":4,"responses":{},"date":"2024-01-01"}`, "garbage")
	require.NoError(t, err)

	entries, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.False(t, mr.Exists(testRedisKey))

	// appends start a fresh list
	require.NoError(t, repo.Append(ctx, sampleEntry("amor", 4, nil)))
	list, err := mr.List(testRedisKey)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEntryRedisRepoStrictLoad(t *testing.T) {
	repo, mr, _ := newTestRedisRepo(t, true)
	_, err := mr.Push(testRedisKey, "garbage")
	require.NoError(t, err)

	_, err = repo.Load(context.Background())
	var cerr *model.CorruptionError
	assert.ErrorAs(t, err, &cerr)
	assert.True(t, mr.Exists(testRedisKey))
}

func TestEntryRedisRepoUnavailable(t *testing.T) {
	ctx := context.Background()
	repo, mr, _ := newTestRedisRepo(t, false)
	mr.Close()

	_, err := repo.Load(ctx)
	assert.Error(t, err)

	assert.Error(t, repo.Append(ctx, sampleEntry("ira", 1, nil)))
	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEntryRedisRepoConcurrentAppendKeepsListOrder(t *testing.T) {
	ctx := context.Background()
	repo, _, client := newTestRedisRepo(t, false)
	_, err := repo.Load(ctx)
	require.NoError(t, err)

	const writers = 30
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := sampleEntry("amor", i%5+1, map[string]int{"1": i % 6})
			e.Date = model.EntryDate(strconv.Itoa(i))
			assert.NoError(t, repo.Append(ctx, e))
		}(i)
	}
	wg.Wait()

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, writers)

	loaded, err := NewEntryRedisRepo(client, testRedisKey, EntryRepoOptions{}).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, loaded)
}
