package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodscale/internal/logging"
	"moodscale/internal/model"
	"moodscale/internal/repository"
)

type recordedBroadcast struct {
	msgType string
	payload interface{}
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	msgs []recordedBroadcast
}

func (b *fakeBroadcaster) Broadcast(msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, recordedBroadcast{msgType: msgType, payload: payload})
}

type failingEntryRepo struct {
	repository.EntryRepo
}

func (failingEntryRepo) Append(context.Context, *model.Entry) error {
	return errors.New("disk full")
}

func newTestJournal(t *testing.T) (*JournalService, string) {
	t.Helper()
	questions, err := repository.NewQuestionRepo()
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "emotions_log.json")
	entries := repository.NewEntryFileRepo(path, repository.EntryRepoOptions{Logger: logger})
	_, err = entries.Load(context.Background())
	require.NoError(t, err)

	return NewJournalService(questions, entries, logger), path
}

func TestJournalServiceQuestions(t *testing.T) {
	svc, _ := newTestJournal(t)

	qs, err := svc.Questions("tristeza")
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	_, err = svc.Questions("nostalgia")
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.Len(t, svc.Emotions(), 9)
}

func TestJournalServiceLogEntry(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestJournal(t)

	before, err := svc.Entries(ctx)
	require.NoError(t, err)

	e := &model.Entry{Emotion: "ansiedad", Intensity: 4, Responses: map[string]int{"0": 2, "1": 4}, Date: "2024-06-01"}
	require.NoError(t, svc.LogEntry(ctx, e))

	after, err := svc.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	assert.Equal(t, *e, after[len(after)-1])
}

func TestJournalServiceLogEntryInvalidEmotion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestJournal(t)
	require.NoError(t, svc.LogEntry(ctx, &model.Entry{Emotion: "ira", Intensity: 2, Responses: map[string]int{}, Date: "x"}))

	before, err := svc.Entries(ctx)
	require.NoError(t, err)

	err = svc.LogEntry(ctx, &model.Entry{Emotion: "euforia", Intensity: 5, Responses: map[string]int{}, Date: "x"})
	assert.ErrorIs(t, err, model.ErrValidation)

	after, err := svc.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestJournalServiceLogEntryStoreFailure(t *testing.T) {
	questions, err := repository.NewQuestionRepo()
	require.NoError(t, err)
	b := &fakeBroadcaster{}
	svc := NewJournalService(questions, failingEntryRepo{}, nil)
	svc.SetBroadcaster(b)

	err = svc.LogEntry(context.Background(), &model.Entry{Emotion: "ira", Date: "x"})
	assert.ErrorContains(t, err, "disk full")
	assert.NotErrorIs(t, err, model.ErrValidation)
	assert.Empty(t, b.msgs)
}

func TestJournalServiceStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestJournal(t)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats.Overall)
	assert.Empty(t, stats.ByQuestion)

	require.NoError(t, svc.LogEntry(ctx, &model.Entry{Emotion: "felicidad", Intensity: 3, Responses: map[string]int{"q1": 2}, Date: "d"}))
	require.NoError(t, svc.LogEntry(ctx, &model.Entry{Emotion: "felicidad", Intensity: 5, Responses: map[string]int{"q1": 4}, Date: "d"}))

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"felicidad": 4.0}, stats.Overall)
	assert.Equal(t, map[string]map[string]float64{"felicidad": {"q1": 3.0}}, stats.ByQuestion)
}

func TestJournalServiceBroadcasts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestJournal(t)
	b := &fakeBroadcaster{}
	svc.SetBroadcaster(b)

	require.NoError(t, svc.LogEntry(ctx, &model.Entry{Emotion: "amor", Intensity: 5, Responses: map[string]int{"0": 5}, Date: "d"}))

	require.Len(t, b.msgs, 2)
	assert.Equal(t, MsgEntryLogged, b.msgs[0].msgType)
	assert.Equal(t, MsgStatsUpdate, b.msgs[1].msgType)
	stats, ok := b.msgs[1].payload.(*model.Stats)
	require.True(t, ok)
	assert.Equal(t, 5.0, stats.Overall["amor"])

	require.Error(t, svc.LogEntry(ctx, &model.Entry{Emotion: "nada", Date: "d"}))
	assert.Len(t, b.msgs, 2)
}

func TestJournalServiceRestart(t *testing.T) {
	ctx := context.Background()
	svc, path := newTestJournal(t)

	require.NoError(t, svc.LogEntry(ctx, &model.Entry{Emotion: "miedo", Intensity: 2, Responses: map[string]int{"0": 4}, Date: "2024-01-02"}))
	note := "pesadilla"
	require.NoError(t, svc.LogEntry(ctx, &model.Entry{Emotion: "miedo", Intensity: 3, Responses: map[string]int{"1": 5}, Date: "2024-01-03", Note: &note}))

	written, err := svc.Entries(ctx)
	require.NoError(t, err)

	loaded, err := repository.NewEntryFileRepo(path, repository.EntryRepoOptions{}).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, written, loaded)
}

func TestJournalServiceLogEntryTagsOwner(t *testing.T) {
	questions, err := repository.NewQuestionRepo()
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	entries := repository.NewEntryFileRepo(filepath.Join(t.TempDir(), "emotions_log.json"), repository.EntryRepoOptions{Logger: logger})
	svc := NewJournalService(questions, entries, logger)

	ctx := logging.WithOwnerID(context.Background(), OwnerIDFor("owner"))
	require.NoError(t, svc.LogEntry(ctx, &model.Entry{Emotion: "culpa", Intensity: 2, Responses: map[string]int{}, Date: "2024-06-02"}))

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "entry logged", last.Message)
	assert.Equal(t, OwnerIDFor("owner"), last.Data["owner_id"])
}
