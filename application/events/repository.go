package events

import (
	"context"
	"errors"
	"fmt"

	"boleteria/common"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindAll returns events ordered by date
func (r *Repository) FindAll(ctx context.Context) ([]common.Event, error) {
	events := []common.Event{}
	if err := r.db.WithContext(ctx).Order("date, id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// FindByID returns ErrNotFound when the event does not exist
func (r *Repository) FindByID(ctx context.Context, id uint) (*common.Event, error) {
	var event common.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: event %d", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find event %d: %w", id, err)
	}
	return &event, nil
}

// SearchByName is a case-insensitive substring match.
func (r *Repository) SearchByName(ctx context.Context, name string) ([]common.Event, error) {
	events := []common.Event{}
	if err := r.db.WithContext(ctx).Where("LOWER(name) LIKE ? ESCAPE '!'", common.ContainsPattern(name)).Order("date, id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	return events, nil
}

// Create inserts event and fills its id
func (r *Repository) Create(ctx context.Context, event *common.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// Save writes every column of event
func (r *Repository) Save(ctx context.Context, event *common.Event) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("failed to update event %d: %w", event.ID, err)
	}
	return nil
}

// Delete removes the event; a missing id is not an error
func (r *Repository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&common.Event{}, id).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: event %d still has tickets", common.ErrInvalidState, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	return nil
}

// CountTickets counts the tickets referencing the event
func (r *Repository) CountTickets(ctx context.Context, id uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&common.Ticket{}).Where("event_id = ?", id).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tickets for event %d: %w", id, err)
	}
	return count, nil
}
