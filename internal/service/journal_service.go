package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"moodscale/internal/logging"
	"moodscale/internal/metrics"
	"moodscale/internal/model"
	"moodscale/internal/repository"
)

// JournalService validates and records entries and serves questions and stats
type JournalService struct {
	questionRepo repository.QuestionRepo
	entryRepo    repository.EntryRepo
	log          logrus.FieldLogger
	broadcaster  Broadcaster
}

// NewJournalService creates a new journal service
func NewJournalService(questionRepo repository.QuestionRepo, entryRepo repository.EntryRepo, log logrus.FieldLogger) *JournalService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &JournalService{
		questionRepo: questionRepo,
		entryRepo:    entryRepo,
		log:          log,
	}
}

// SetBroadcaster sets the WebSocket broadcaster
func (s *JournalService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Emotions lists the emotions known to the catalogue
func (s *JournalService) Emotions() []string {
	return s.questionRepo.Emotions()
}

// Questions returns the follow-up questions for an emotion
func (s *JournalService) Questions(emotion string) ([]model.Question, error) {
	return s.questionRepo.GetByEmotion(emotion)
}

// LogEntry validates the entry against the catalogue and appends it
func (s *JournalService) LogEntry(ctx context.Context, entry *model.Entry) error {
	if !s.questionRepo.Has(entry.Emotion) {
		return fmt.Errorf("%w: %q", model.ErrValidation, entry.Emotion)
	}

	if err := s.entryRepo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}

	metrics.RecordEntryLogged(entry.Emotion)
	logging.FromContext(ctx, s.log).
		WithField("emotion", entry.Emotion).
		WithField("intensity", entry.Intensity).
		Info("entry logged")

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(MsgEntryLogged, entry)
		if stats, err := s.Stats(ctx); err == nil {
			s.broadcaster.Broadcast(MsgStatsUpdate, stats)
		}
	}
	return nil
}

// Entries returns every entry in insertion order
func (s *JournalService) Entries(ctx context.Context) ([]model.Entry, error) {
	return s.entryRepo.All(ctx)
}

// Stats recomputes the aggregates from the full history
func (s *JournalService) Stats(ctx context.Context) (*model.Stats, error) {
	entries, err := s.entryRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeStats(entries), nil
}
