package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/murmurlabs/murmur/internal/model"
	"github.com/murmurlabs/murmur/internal/storage"
)

// RecordingService runs the full flow for one session: gate pre-check,
// audio upload, remote analysis, entry save, counter increment. The local
// gate only under-promises; the transcriber's own limit errors still
// surface when it disagrees.
type RecordingService struct {
	journal     *JournalService
	access      *AccessService
	transcriber *TranscriberService
	audio       storage.Storage
}

func NewRecordingService(
	journal *JournalService,
	access *AccessService,
	transcriber *TranscriberService,
	audio storage.Storage,
) *RecordingService {
	return &RecordingService{
		journal:     journal,
		access:      access,
		transcriber: transcriber,
		audio:       audio,
	}
}

// RecordOutcome is either a saved entry or the permission that denied the
// session. Denial is a normal outcome, not an error.
type RecordOutcome struct {
	Entry      *model.JournalEntry      `json:"entry,omitempty"`
	Permission *model.SessionPermission `json:"permission,omitempty"`
}

func (o *RecordOutcome) Denied() bool {
	return o.Permission != nil && !o.Permission.CanRecord
}

func (s *RecordingService) Record(ctx context.Context, userID string, audio []byte, ext, lang string) (*RecordOutcome, error) {
	perm, err := s.access.CanRecordSession(userID)
	if err != nil {
		return nil, err
	}
	if !perm.CanRecord {
		return &RecordOutcome{Permission: perm}, nil
	}

	path := fmt.Sprintf("audio/%s/%s%s", userID, uuid.New().String(), ext)
	err = s.audio.Save(path, bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("failed to store recording: %w", err)
	}

	result, err := s.transcriber.Process(ctx, audio, lang)
	if err != nil {
		// Orphaned blob cleanup; the entry was never created.
		delErr := s.audio.Delete(path)
		if delErr != nil {
			slog.Error("failed to delete audio after processing failure", "error", delErr, "path", path)
		}
		return nil, err
	}

	entry, err := s.journal.SaveEntry(userID, model.JournalEntry{
		AudioURI:   s.audio.URL(path),
		Transcript: result.Transcript,
		Summary:    result.Analysis.Summary,
		Blocker:    result.Analysis.Blocker,
		Mood:       result.Analysis.Mood,
		Tasks:      result.Analysis.Tasks,
	})
	if err != nil {
		return nil, err
	}

	// The session already happened; a failed counter update is logged,
	// not surfaced, and the transcriber remains the enforcement backstop.
	err = s.access.IncrementSessionCount(userID)
	if err != nil {
		slog.Error("failed to increment session count", "error", err, "user_id", userID)
	}

	return &RecordOutcome{Entry: entry}, nil
}
