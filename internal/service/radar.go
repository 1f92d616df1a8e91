package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jaekwang-park/agenda-api/internal/agenda"
	"github.com/jaekwang-park/agenda-api/internal/model"
	"github.com/jaekwang-park/agenda-api/internal/repository"
)

type CreateRadarItemInput struct {
	Title    string
	Notes    string
	Priority *int
}

type RadarService struct {
	repo  repository.RadarRepository
	cache SnapshotInvalidator
}

func NewRadarService(repo repository.RadarRepository, cache SnapshotInvalidator) *RadarService {
	if cache == nil {
		cache = nopInvalidator{}
	}
	return &RadarService{repo: repo, cache: cache}
}

func (s *RadarService) Create(ctx context.Context, userID string, input CreateRadarItemInput) (model.RadarItem, error) {
	item, err := agenda.NormalizeRadarItem(agenda.RadarPayload{
		UserID:   userID,
		Title:    input.Title,
		Notes:    input.Notes,
		Priority: input.Priority,
	})
	if err != nil {
		return model.RadarItem{}, err
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return model.RadarItem{}, fmt.Errorf("failed to create radar item: %w", err)
	}

	s.cache.Invalidate(ctx, userID)
	return created, nil
}

func (s *RadarService) List(ctx context.Context, userID string) ([]model.RadarItem, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list radar items: %w", err)
	}
	return items, nil
}

func (s *RadarService) Delete(ctx context.Context, userID, itemID string) error {
	if err := s.repo.Delete(ctx, userID, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete radar item: %w", err)
	}

	s.cache.Invalidate(ctx, userID)
	return nil
}
