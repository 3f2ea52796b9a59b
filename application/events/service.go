package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"boleteria/common"
)

// EventInput is the body of create and update requests.
type EventInput struct {
	Name        string    `json:"name" binding:"required,max=160"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" binding:"required"`
	Venue       string    `json:"venue" binding:"max=160"`
	Capacity    int       `json:"capacity" binding:"min=0"`
}

type Service struct {
	repo *Repository
}

// NewService creates a new Service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// List returns all events
func (s *Service) List(ctx context.Context) ([]common.Event, error) {
	return s.repo.FindAll(ctx)
}

// Get returns one event or ErrNotFound
func (s *Service) Get(ctx context.Context, id uint) (*common.Event, error) {
	return s.repo.FindByID(ctx, id)
}

// Search matches name as a case-insensitive literal substring
func (s *Service) Search(ctx context.Context, name string) ([]common.Event, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrInvalidArgument)
	}
	return s.repo.SearchByName(ctx, strings.TrimSpace(name))
}

// Create stores a new event
func (s *Service) Create(ctx context.Context, input EventInput) (*common.Event, error) {
	event := &common.Event{
		Name:        input.Name,
		Description: input.Description,
		Date:        input.Date,
		Venue:       input.Venue,
		Capacity:    input.Capacity,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Update overwrites an existing event
func (s *Service) Update(ctx context.Context, id uint, input EventInput) (*common.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	event.Name = input.Name
	event.Description = input.Description
	event.Date = input.Date
	event.Venue = input.Venue
	event.Capacity = input.Capacity

	if err := s.repo.Save(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete refuses to orphan issued tickets. A missing event is not an error.
func (s *Service) Delete(ctx context.Context, id uint) error {
	count, err := s.repo.CountTickets(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: event %d has %d tickets", common.ErrInvalidState, id, count)
	}
	return s.repo.Delete(ctx, id)
}
