package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"moodscale/internal/logging"
	"moodscale/internal/model"
	"moodscale/internal/service"
)

// JournalHandler handles question, entry and stats endpoints
type JournalHandler struct {
	journalSvc *service.JournalService
	log        logrus.FieldLogger
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journalSvc *service.JournalService, log logrus.FieldLogger) *JournalHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &JournalHandler{
		journalSvc: journalSvc,
		log:        log,
	}
}

// LogEmotionRequest is the request body for logging an entry.
// Pointers distinguish absent fields from zero values.
type LogEmotionRequest struct {
	Emotion   *string          `json:"emotion"`
	Intensity *int             `json:"intensity"`
	Responses map[string]int   `json:"responses"`
	Date      *model.EntryDate `json:"date"`
	Note      *string          `json:"note"`
}

// toEntry checks required fields and builds the entry
func (req *LogEmotionRequest) toEntry() (*model.Entry, error) {
	switch {
	case req.Emotion == nil:
		return nil, fmt.Errorf("emotion: %w", model.ErrMissingField)
	case req.Intensity == nil:
		return nil, fmt.Errorf("intensity: %w", model.ErrMissingField)
	case req.Responses == nil:
		return nil, fmt.Errorf("responses: %w", model.ErrMissingField)
	case req.Date == nil:
		return nil, fmt.Errorf("date: %w", model.ErrMissingField)
	}

	return &model.Entry{
		Emotion:   *req.Emotion,
		Intensity: *req.Intensity,
		Responses: req.Responses,
		Date:      *req.Date,
		Note:      req.Note,
	}, nil
}

// GetQuestions handles GET /questions/{emotion}
func (h *JournalHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	emotion := mux.Vars(r)["emotion"]

	questions, err := h.journalSvc.Questions(emotion)
	if errors.Is(err, model.ErrNotFound) {
		writeError(w, http.StatusNotFound, model.ErrNotFound.Error())
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

// LogEmotion handles POST /log_emotion/
func (h *JournalHandler) LogEmotion(w http.ResponseWriter, r *http.Request) {
	var req LogEmotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	entry, err := req.toEntry()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	err = h.journalSvc.LogEntry(r.Context(), entry)
	if errors.Is(err, model.ErrValidation) {
		writeError(w, http.StatusBadRequest, model.ErrValidation.Error())
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged"})
}

// GetStats handles GET /stats/
func (h *JournalHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.journalSvc.Stats(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// GetEntries handles GET /entries/
func (h *JournalHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journalSvc.Entries(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *JournalHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context(), h.log).
		WithError(err).
		WithField("path", r.URL.Path).
		Error("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}
