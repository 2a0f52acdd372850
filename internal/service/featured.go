package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shivanand-hulikatti/eventhub/internal/featured"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
)

// FeaturedService exposes the featured rotation as slides of live events.
type FeaturedService struct {
	store    EventStore
	rotation *featured.Rotation
}

// NewFeaturedService builds the rotation over the events flagged featured,
// in catalog order.
func NewFeaturedService(ctx context.Context, store EventStore, log *slog.Logger) (*FeaturedService, error) {
	events, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	var ids []string
	for _, e := range events {
		if e.Featured {
			ids = append(ids, e.ID)
		}
	}
	return &FeaturedService{store: store, rotation: featured.New(ids, log)}, nil
}

// Run drives the automatic rotation until ctx is done.
func (s *FeaturedService) Run(ctx context.Context, interval time.Duration) {
	s.rotation.Run(ctx, interval)
}

// Current returns the slide on show.
func (s *FeaturedService) Current(ctx context.Context) (*model.FeaturedSlide, error) {
	return s.slide(ctx)
}

// Next advances the rotation, wrapping after the last slide.
func (s *FeaturedService) Next(ctx context.Context) (*model.FeaturedSlide, error) {
	s.rotation.Next()
	return s.slide(ctx)
}

// Prev steps back, wrapping before the first slide.
func (s *FeaturedService) Prev(ctx context.Context) (*model.FeaturedSlide, error) {
	s.rotation.Prev()
	return s.slide(ctx)
}

// Select jumps to slide index; an out-of-range index is ErrNotFound.
func (s *FeaturedService) Select(ctx context.Context, index int) (*model.FeaturedSlide, error) {
	if err := s.rotation.Select(index); err != nil {
		return nil, fmt.Errorf("select slide %d: %w", index, repository.ErrNotFound)
	}
	return s.slide(ctx)
}

func (s *FeaturedService) slide(ctx context.Context) (*model.FeaturedSlide, error) {
	index, id, ok := s.rotation.Current()
	if !ok {
		return nil, fmt.Errorf("no featured events: %w", repository.ErrNotFound)
	}
	event, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get featured event: %w", err)
	}
	return &model.FeaturedSlide{
		Index: index,
		Count: s.rotation.Len(),
		Event: model.NewEventView(*event),
	}, nil
}
