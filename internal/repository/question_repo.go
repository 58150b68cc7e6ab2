package repository

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"moodscale/internal/model"
)

//go:embed catalogue.yaml
var catalogueYAML []byte

// QuestionRepo is the read-only catalogue of follow-up questions per emotion
type QuestionRepo interface {
	GetByEmotion(emotion string) ([]model.Question, error)
	Has(emotion string) bool
	Emotions() []string
}

type questionRepo struct {
	questions map[string][]model.Question
	emotions  []string
}

// NewQuestionRepo loads the built-in catalogue
func NewQuestionRepo() (QuestionRepo, error) {
	return NewQuestionRepoFromYAML(catalogueYAML)
}

// NewQuestionRepoFromYAML parses a catalogue document of the form
// emotion -> [{question, options}]
func NewQuestionRepoFromYAML(data []byte) (QuestionRepo, error) {
	var questions map[string][]model.Question
	if err := yaml.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse question catalogue: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("question catalogue is empty")
	}

	emotions := make([]string, 0, len(questions))
	for emotion, qs := range questions {
		if len(qs) == 0 {
			return nil, fmt.Errorf("emotion %q has no questions", emotion)
		}
		for i, q := range qs {
			if q.Question == "" || len(q.Options) == 0 {
				return nil, fmt.Errorf("emotion %q: question %d needs a prompt and options", emotion, i)
			}
		}
		emotions = append(emotions, emotion)
	}
	sort.Strings(emotions)

	return &questionRepo{
		questions: questions,
		emotions:  emotions,
	}, nil
}

func (r *questionRepo) GetByEmotion(emotion string) ([]model.Question, error) {
	qs, ok := r.questions[emotion]
	if !ok {
		return nil, model.ErrNotFound
	}

	out := make([]model.Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out, nil
}

func (r *questionRepo) Has(emotion string) bool {
	_, ok := r.questions[emotion]
	return ok
}

func (r *questionRepo) Emotions() []string {
	out := make([]string, len(r.emotions))
	copy(out, r.emotions)
	return out
}
