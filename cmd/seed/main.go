package main

import (
	"context"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"moodscale/internal/app"
	"moodscale/internal/config"
	"moodscale/internal/logging"
	"moodscale/internal/model"
	"moodscale/internal/service"
)

const defaultSeedCount = 20

func main() {
	cfg, err := config.Load(os.Getenv("MOODSCALE_CONFIG"))
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	count := defaultSeedCount
	if v := os.Getenv("SEED_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatalf("Invalid SEED_COUNT %q", v)
		}
		count = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}
	defer a.Close(ctx)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	emotions := a.JournalService.Emotions()
	start := time.Now().AddDate(0, 0, -count)

	for i := 0; i < count; i++ {
		emotion := emotions[rng.Intn(len(emotions))]
		questions, err := a.JournalService.Questions(emotion)
		if err != nil {
			log.Fatalf("Failed to read questions for %s: %v", emotion, err)
		}

		entry := &model.Entry{
			Emotion:   emotion,
			Intensity: 1 + rng.Intn(5),
			Responses: sampleResponses(rng, questions),
			Date:      model.EntryDate(start.AddDate(0, 0, i).Format("2006-01-02")),
		}
		if err := a.JournalService.LogEntry(ctx, entry); err != nil {
			log.Fatalf("Failed to log entry: %v", err)
		}
	}

	entries, err := a.JournalService.Entries(ctx)
	if err != nil {
		log.Fatalf("Failed to read journal: %v", err)
	}
	log.WithFields(logrus.Fields{
		"seeded":  count,
		"total":   len(entries),
		"backend": cfg.Store.Backend,
		"counts":  service.Counts(entries),
	}).Info("Successfully seeded journal")
}

// sampleResponses picks one option per question, keyed by question index.
func sampleResponses(rng *rand.Rand, questions []model.Question) map[string]int {
	responses := make(map[string]int, len(questions))
	for i, q := range questions {
		opt := q.Options[rng.Intn(len(q.Options))]
		responses[strconv.Itoa(i)] = opt.Weight
	}
	return responses
}
