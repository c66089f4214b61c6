package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
	"github.com/GregMSThompson/finance-assistant/pkg/logger"
)

type cipher interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type noteStore interface {
	Create(ctx context.Context, uid string, n *models.Note) error
	List(ctx context.Context, uid string, limit int) ([]*models.Note, error)
}

type noteService struct {
	cipher   cipher
	store    noteStore
	clockNow func() time.Time
}

func NewNoteService(cipher cipher, store noteStore) *noteService {
	return &noteService{cipher: cipher, store: store, clockNow: time.Now}
}

const maxNoteLength = 2000

func (s *noteService) CreateNote(ctx context.Context, uid, text string) (*models.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.NewValidationError("note text is required")
	}
	if len(text) > maxNoteLength {
		return nil, errs.NewValidationError("note is too long")
	}

	ct, err := s.cipher.Encrypt(ctx, text)
	if err != nil {
		return nil, err
	}
	n := &models.Note{ID: uuid.NewString(), Ciphertext: ct, CreatedAt: s.clockNow()}
	if err := s.store.Create(ctx, uid, n); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("note stored", "note_id", n.ID)
	return n, nil
}

// ListNotes decrypts the newest notes. A note that fails to decrypt is
// skipped so one bad record does not hide the rest.
func (s *noteService) ListNotes(ctx context.Context, uid string, limit int) ([]dto.NoteView, error) {
	log := logger.FromContext(ctx)

	notes, err := s.store.List(ctx, uid, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NoteView, 0, len(notes))
	for _, n := range notes {
		text, err := s.cipher.Decrypt(ctx, n.Ciphertext)
		if err != nil {
			log.Error("failed to decrypt note", "note_id", n.ID, "error", err)
			continue
		}
		out = append(out, dto.NoteView{ID: n.ID, Text: text, CreatedAt: n.CreatedAt.Format(time.RFC3339)})
	}
	return out, nil
}
