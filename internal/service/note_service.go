package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/apperrors"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/repository"
)

// NoteService handles trade annotation business logic.
type NoteService struct {
	noteRepo  *repository.NoteRepository
	tradeRepo *repository.TradeRepository
}

// NewNoteService creates a new NoteService with the provided repository dependencies.
func NewNoteService(
	noteRepo *repository.NoteRepository,
	tradeRepo *repository.TradeRepository,
) *NoteService {
	return &NoteService{
		noteRepo:  noteRepo,
		tradeRepo: tradeRepo,
	}
}

// GetNote retrieves the annotation for a trade. A trade without a note
// yields an empty default, not an error.
func (s *NoteService) GetNote(userID, tradeID string) (model.TradeNote, error) {
	note, found, err := s.noteRepo.GetNote(userID, tradeID)
	if err != nil {
		return model.TradeNote{}, err
	}
	if !found {
		return model.TradeNote{
			UserID:      userID,
			TradeID:     tradeID,
			Notes:       "",
			Screenshots: []string{},
		}, nil
	}
	return note, nil
}

// UpsertNote creates or replaces the annotation for a trade. The trade must
// exist and belong to the user.
func (s *NoteService) UpsertNote(ctx context.Context, userID, tradeID, notes string, screenshots []string) error {
	if _, err := s.tradeRepo.GetTrade(userID, tradeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrTradeNotFound
		}
		return err
	}

	if screenshots == nil {
		screenshots = []string{}
	}

	return s.noteRepo.UpsertNote(ctx, model.TradeNote{
		UserID:      userID,
		TradeID:     tradeID,
		Notes:       notes,
		Screenshots: screenshots,
	})
}
